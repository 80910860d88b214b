// stagedfile.go — временный файл, принятый при загрузке формы.
package model

// StagedFile — файл, принятый Upload Staging и записанный во временное
// хранилище. Живёт от приёма запроса до очистки после отправки уведомления.
type StagedFile struct {
	// FieldName — имя поля формы, под которым пришёл файл.
	FieldName string
	// OriginalFilename — имя файла у отправителя.
	OriginalFilename string
	// StoragePath — путь файла относительно директории uploads.
	StoragePath string
	// FullPath — абсолютный путь файла на диске.
	FullPath string
	// Size — размер в байтах.
	Size int64
	// ContentType — MIME-тип из заголовка части.
	ContentType string
}
