package validate

import "regexp"

// Роли, доступные при регистрации.
const (
	RoleAdministrador = "Administrador"
	RoleRevendedor    = "Revendedor"
)

var phoneRe = regexp.MustCompile(`^\d{11,12}$`)

// Правила идут в том же порядке, что и в формах: сообщение показывается первое сработавшее.

var LoginSchema = Schema{Fields: []Field{
	{Name: "email", Rules: []Rule{
		Email("Insira um email válido!"),
		Required("O campo email é obrigatório!"),
	}},
	{Name: "password", Rules: []Rule{
		Required("O campo senha é obrigatório!"),
	}},
}}

var RegisterSchema = Schema{Fields: []Field{
	{Name: "name", Rules: []Rule{
		Required("O campo nome é obrigatório!"),
	}},
	{Name: "email", Rules: []Rule{
		Email("Insira um email válido!"),
		Required("O campo email é obrigatório!"),
	}},
	{Name: "password", Rules: []Rule{
		MinLen(6, "A senha deve ter pelo menos 6 caracteres!"),
		Required("O campo senha é obrigatório!"),
	}},
	{Name: "role", Rules: []Rule{
		Required("Selecione uma função"),
		OneOf([]string{RoleAdministrador, RoleRevendedor}, "Selecione uma função válida"),
	}},
}}

var ListingSchema = Schema{Fields: []Field{
	{Name: "name", Rules: []Rule{Required("O campo nome é obrigatório!")}},
	{Name: "model", Rules: []Rule{Required("O modelo é obrigatório!")}},
	{Name: "year", Rules: []Rule{Required("O ano do carro é obrigatório!")}},
	{Name: "km", Rules: []Rule{Required("O Km do carro é obrigatório!")}},
	{Name: "price", Rules: []Rule{Required("O preço é obrigatório!")}},
	{Name: "city", Rules: []Rule{Required("A cidade é obrigatória!")}},
	{Name: "whatsapp", Rules: []Rule{
		Required("O telefone é obrigatório!"),
		Match(phoneRe, "Número de telefone inválido."),
	}},
	{Name: "description", Rules: []Rule{Required("A descrição é obrigatória!")}},
}}
