package model

// ListingForm — поля формы нового объявления.
type ListingForm struct {
	Name        string `json:"name"`
	Model       string `json:"model"`
	Year        string `json:"year"`
	Km          string `json:"km"`
	Price       string `json:"price"`
	City        string `json:"city"`
	Whatsapp    string `json:"whatsapp"`
	Description string `json:"description"`
}

// Values возвращает поля формы по именам, как их видит валидация.
func (f ListingForm) Values() map[string]string {
	return map[string]string{
		"name":        f.Name,
		"model":       f.Model,
		"year":        f.Year,
		"km":          f.Km,
		"price":       f.Price,
		"city":        f.City,
		"whatsapp":    f.Whatsapp,
		"description": f.Description,
	}
}

// ListingImage — изображение внутри сохранённого объявления.
type ListingImage struct {
	UID  string `json:"uid"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Listing — документ коллекции cars.
type Listing struct {
	Name        string         `json:"name"`
	Model       string         `json:"model"`
	Year        string         `json:"year"`
	Km          string         `json:"km"`
	Price       string         `json:"price"`
	City        string         `json:"city"`
	Whatsapp    string         `json:"whatsapp"`
	Description string         `json:"description"`
	Created     string         `json:"created"`
	Owner       string         `json:"owner"`
	UID         string         `json:"uid"`
	Images      []ListingImage `json:"images"`
}
