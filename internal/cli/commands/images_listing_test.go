package commands

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"strings"
	"testing"

	"WebCarros/internal/cli/backend/memory"
	"WebCarros/internal/cli/model"
	"WebCarros/internal/cli/service"
	"WebCarros/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var addedRe = regexp.MustCompile(`-> ([0-9a-f-]{36})`)

func loginBob(t *testing.T, be *memory.Backend, cfg *config.Config) string {
	t.Helper()
	p := be.AddUser("bob@x.com", "secret1", "Bob")
	withStdoutCapture(t, func() {
		require.Equal(t, 0, Dispatch(context.Background(), cfg, []string{"login", "bob@x.com", "secret1"}))
	})
	return p.UID
}

func addImages(t *testing.T, cfg *config.Config, files ...string) []string {
	t.Helper()
	var code int
	out := withStdoutCapture(t, func() {
		code = Dispatch(context.Background(), cfg, append([]string{"image-add"}, files...))
	})
	require.Equal(t, 0, code, out)
	var ids []string
	for _, m := range addedRe.FindAllStringSubmatch(out, -1) {
		ids = append(ids, m[1])
	}
	require.Len(t, ids, len(files), out)
	return ids
}

func TestImageAdd_RequiresLogin(t *testing.T) {
	_, cfg := withMemoryBackend(t)
	p := writeTempFile(t, "a.png", pngBytes)

	var code int
	out := withStdoutCapture(t, func() { code = Dispatch(context.Background(), cfg, []string{"image-add", p}) })
	assert.Equal(t, 1, code)
	assert.Contains(t, out, "image-add error")
}

func TestImageAdd_ListAndRemove(t *testing.T) {
	be, cfg := withMemoryBackend(t)
	uid := loginBob(t, be, cfg)

	a := writeTempFile(t, "a.png", pngBytes)
	b := writeTempFile(t, "b.jpg", []byte("\xff\xd8\xff\xe0jpeg"))
	ids := addImages(t, cfg, a, b)

	// файлы загружены под images/<uid>/<localId>
	for _, id := range ids {
		assert.True(t, be.HasBlob(model.StoragePathFor(uid, id)))
	}

	// список в порядке выбора
	out := withStdoutCapture(t, func() { require.Equal(t, 0, Dispatch(context.Background(), cfg, []string{"images"})) })
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], ids[0]+"\t"+a))
	assert.True(t, strings.HasPrefix(lines[1], ids[1]+"\t"+b))

	out = withStdoutCapture(t, func() { require.Equal(t, 0, Dispatch(context.Background(), cfg, []string{"image-rm", ids[0]})) })
	assert.Contains(t, out, "Deleted "+ids[0])
	assert.False(t, be.HasBlob(model.StoragePathFor(uid, ids[0])))

	out = withStdoutCapture(t, func() { require.Equal(t, 0, Dispatch(context.Background(), cfg, []string{"images"})) })
	assert.NotContains(t, out, ids[0])
	assert.Contains(t, out, ids[1])
}

func TestImageAdd_UnsupportedAndFailures(t *testing.T) {
	be, cfg := withMemoryBackend(t)
	loginBob(t, be, cfg)

	gif := writeTempFile(t, "c.gif", []byte("GIF89a"))
	var code int
	out := withStdoutCapture(t, func() { code = Dispatch(context.Background(), cfg, []string{"image-add", gif}) })
	assert.Equal(t, 1, code)
	assert.Contains(t, out, "Erro: "+service.MsgUnsupported)
	assert.Equal(t, 0, be.Calls(memory.OpBlobWrite))

	be.Fail(memory.OpBlobWrite, errors.New("storage down"))
	png := writeTempFile(t, "a.png", pngBytes)
	out = withStdoutCapture(t, func() { code = Dispatch(context.Background(), cfg, []string{"image-add", png}) })
	assert.Equal(t, 1, code)
	assert.Contains(t, out, "Erro: "+service.MsgUploadFailed)

	// файла нет на диске
	out = withStdoutCapture(t, func() { code = Dispatch(context.Background(), cfg, []string{"image-add", "/no/such/file.png"}) })
	assert.Equal(t, 1, code)
	assert.Contains(t, out, "image-add error")

	withStdoutCapture(t, func() { code = Dispatch(context.Background(), cfg, []string{"image-add"}) })
	assert.Equal(t, 2, code)
}

func TestImageRm_UnknownImage(t *testing.T) {
	be, cfg := withMemoryBackend(t)
	loginBob(t, be, cfg)

	var code int
	out := withStdoutCapture(t, func() { code = Dispatch(context.Background(), cfg, []string{"image-rm", "missing"}) })
	assert.Equal(t, 1, code)
	assert.Contains(t, out, "Erro: "+service.MsgDeleteFailed)
	assert.Equal(t, 1, be.Calls(memory.OpBlobDelete))
}

func TestListingNew_ValidationKeepsFieldsThenSubmit(t *testing.T) {
	be, cfg := withMemoryBackend(t)
	uid := loginBob(t, be, cfg)

	// без телефона: сообщение поля, введённые значения сохраняются в черновике
	var code int
	out := withStdoutCapture(t, func() {
		code = Dispatch(context.Background(), cfg, []string{"listing-new",
			"-name", "civic", "-model", "EXL 2.0", "-year", "2020/2021", "-km", "30000",
			"-price", "120000", "-city", "Campinas", "-description", "Único dono"})
	})
	assert.Equal(t, 1, code)
	assert.Contains(t, out, "whatsapp: O telefone é obrigatório!")
	assert.Equal(t, 0, be.Calls(memory.OpDocCreate))

	// без изображений объявление не создаётся
	out = withStdoutCapture(t, func() {
		code = Dispatch(context.Background(), cfg, []string{"listing-new", "-whatsapp", "11999998888"})
	})
	assert.Equal(t, 1, code)
	assert.Contains(t, out, "Erro: "+service.MsgNoImages)
	assert.Equal(t, 0, be.Calls(memory.OpDocCreate))

	ids := addImages(t, cfg, writeTempFile(t, "a.png", pngBytes))

	out = withStdoutCapture(t, func() {
		code = Dispatch(context.Background(), cfg, []string{"listing-new"})
	})
	require.Equal(t, 0, code, out)
	assert.Contains(t, out, service.MsgListingCreated)
	m := regexp.MustCompile(`Listing id: (\S+)`).FindStringSubmatch(out)
	require.Len(t, m, 2)

	docs := be.Docs(service.CarsCollection)
	require.Len(t, docs, 1)
	var l model.Listing
	require.NoError(t, json.Unmarshal(docs[m[1]], &l))
	assert.Equal(t, "CIVIC", l.Name)
	assert.Equal(t, "11999998888", l.Whatsapp)
	assert.Equal(t, "Bob", l.Owner)
	assert.Equal(t, uid, l.UID)
	require.Len(t, l.Images, 1)
	assert.Equal(t, ids[0], l.Images[0].Name)

	// черновик очищен
	out = withStdoutCapture(t, func() { require.Equal(t, 0, Dispatch(context.Background(), cfg, []string{"images"})) })
	assert.Contains(t, out, "No images")

	out = withStdoutCapture(t, func() {
		code = Dispatch(context.Background(), cfg, []string{"listing-get", m[1]})
	})
	require.Equal(t, 0, code, out)
	assert.Contains(t, out, `"name": "CIVIC"`)

	out = withStdoutCapture(t, func() {
		code = Dispatch(context.Background(), cfg, []string{"listing-get", "nope"})
	})
	assert.Equal(t, 1, code)
	assert.Contains(t, out, "listing-get error")
}

func TestListingNew_BadFlags(t *testing.T) {
	be, cfg := withMemoryBackend(t)
	loginBob(t, be, cfg)

	var code int
	withStdoutCapture(t, func() { code = Dispatch(context.Background(), cfg, []string{"listing-new", "-color", "red"}) })
	assert.Equal(t, 2, code)
}
