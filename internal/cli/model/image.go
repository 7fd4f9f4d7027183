package model

// ImagesRoot — корень путей изображений в хранилище.
const ImagesRoot = "images"

// ImageDescriptor — загруженное изображение черновика объявления.
type ImageDescriptor struct {
	OwnerUID    string
	LocalID     string
	Preview     string // локальный путь к файлу
	RemoteURL   string
	StoragePath string
	Seq         int64 // порядок выбора файлов пользователем
}

// StoragePathFor строит путь объекта images/<uid>/<localId>.
func StoragePathFor(ownerUID, localID string) string {
	return ImagesRoot + "/" + ownerUID + "/" + localID
}
