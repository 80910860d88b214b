package service

import (
	"bytes"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"

	apierrors "github.com/aqeaw/awards/intake-module/internal/api/errors"
	"github.com/aqeaw/awards/intake-module/internal/config"
	"github.com/aqeaw/awards/intake-module/internal/storage/filestore"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func newStagingService(t *testing.T, maxFileSize int64) *StagingService {
	t.Helper()

	store, err := filestore.New(t.TempDir())
	if err != nil {
		t.Fatalf("создание хранилища: %v", err)
	}

	cfg := &config.Config{
		MaxFileSize:  maxFileSize,
		AllowedTypes: []string{"application/pdf", "image/png"},
	}
	return NewStagingService(cfg, store, discardLogger())
}

// addFilePart добавляет файловую часть с явным Content-Type:
// CreateFormFile всегда ставит application/octet-stream.
func addFilePart(t *testing.T, w *multipart.Writer, field, filename, contentType, content string) {
	t.Helper()

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition",
		`form-data; name="`+field+`"; filename="`+filename+`"`)
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	if err != nil {
		t.Fatalf("создание части: %v", err)
	}
	if _, err := io.WriteString(part, content); err != nil {
		t.Fatalf("запись части: %v", err)
	}
}

func multipartRequest(t *testing.T, build func(w *multipart.Writer)) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	build(w)
	if err := w.Close(); err != nil {
		t.Fatalf("закрытие multipart: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/submit-application", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestStage_ValuesAndFiles(t *testing.T) {
	svc := newStagingService(t, 1024)

	req := multipartRequest(t, func(w *multipart.Writer) {
		_ = w.WriteField("formType", "personal")
		_ = w.WriteField("achievementTitle", "first")
		addFilePart(t, w, "achievementFile", "cert.pdf", "application/pdf", "pdf-bytes")
		_ = w.WriteField("achievementTitle", "second")
	})

	values, staged, stageErr := svc.Stage(req)
	if stageErr != nil {
		t.Fatalf("приём формы: %v", stageErr)
	}

	if got := values.Get("formType"); got != "personal" {
		t.Errorf("formType = %q", got)
	}
	if got := values["achievementTitle"]; len(got) != 2 || got[0] != "first" || got[1] != "second" {
		t.Errorf("achievementTitle = %v, повторы поля не собраны по порядку", got)
	}

	if len(staged) != 1 {
		t.Fatalf("принято файлов %d, ожидается 1", len(staged))
	}
	f := staged[0]
	if f.OriginalFilename != "cert.pdf" {
		t.Errorf("исходное имя %q", f.OriginalFilename)
	}
	if f.ContentType != "application/pdf" {
		t.Errorf("тип %q", f.ContentType)
	}
	if f.Size != int64(len("pdf-bytes")) {
		t.Errorf("размер %d", f.Size)
	}

	data, err := os.ReadFile(f.FullPath)
	if err != nil {
		t.Fatalf("чтение принятого файла: %v", err)
	}
	if string(data) != "pdf-bytes" {
		t.Errorf("содержимое файла %q", data)
	}
}

// TestStage_FileOrderPreserved — файлы возвращаются в порядке поступления
// частей, независимо от имён полей.
func TestStage_FileOrderPreserved(t *testing.T) {
	svc := newStagingService(t, 1024)

	req := multipartRequest(t, func(w *multipart.Writer) {
		addFilePart(t, w, "zFile", "third.pdf", "application/pdf", "3")
		addFilePart(t, w, "aFile", "first.pdf", "application/pdf", "1")
		addFilePart(t, w, "mFile", "second.png", "image/png", "2")
	})

	_, staged, stageErr := svc.Stage(req)
	if stageErr != nil {
		t.Fatalf("приём формы: %v", stageErr)
	}

	want := []string{"third.pdf", "first.pdf", "second.png"}
	if len(staged) != len(want) {
		t.Fatalf("принято файлов %d, ожидается %d", len(staged), len(want))
	}
	for i, name := range want {
		if staged[i].OriginalFilename != name {
			t.Errorf("позиция %d: файл %q, ожидается %q", i, staged[i].OriginalFilename, name)
		}
	}
}

func TestStage_UnsupportedType(t *testing.T) {
	svc := newStagingService(t, 1024)

	req := multipartRequest(t, func(w *multipart.Writer) {
		addFilePart(t, w, "achievementFile", "ok.pdf", "application/pdf", "fine")
		addFilePart(t, w, "achievementFile", "evil.sh", "application/x-sh", "#!/bin/sh")
	})

	_, _, stageErr := svc.Stage(req)
	if stageErr == nil {
		t.Fatal("недопустимый тип принят без ошибки")
	}
	if stageErr.Code != apierrors.CodeUnsupportedType {
		t.Errorf("код ошибки %q, ожидается %q", stageErr.Code, apierrors.CodeUnsupportedType)
	}
	if stageErr.StatusCode != http.StatusBadRequest {
		t.Errorf("статус %d, ожидается %d", stageErr.StatusCode, http.StatusBadRequest)
	}

	// Уже принятый файл удалён при ошибке
	assertStorageEmpty(t, svc.store.DataDir())
}

func TestStage_FileTooLarge(t *testing.T) {
	svc := newStagingService(t, 8)

	req := multipartRequest(t, func(w *multipart.Writer) {
		addFilePart(t, w, "achievementFile", "big.pdf", "application/pdf",
			strings.Repeat("x", 9))
	})

	_, _, stageErr := svc.Stage(req)
	if stageErr == nil {
		t.Fatal("файл сверх лимита принят без ошибки")
	}
	if stageErr.Code != apierrors.CodeFileTooLarge {
		t.Errorf("код ошибки %q, ожидается %q", stageErr.Code, apierrors.CodeFileTooLarge)
	}
	if stageErr.StatusCode != http.StatusRequestEntityTooLarge {
		t.Errorf("статус %d, ожидается %d", stageErr.StatusCode, http.StatusRequestEntityTooLarge)
	}

	assertStorageEmpty(t, svc.store.DataDir())
}

// TestStage_FileAtLimit — файл ровно в лимит проходит.
func TestStage_FileAtLimit(t *testing.T) {
	svc := newStagingService(t, 8)

	req := multipartRequest(t, func(w *multipart.Writer) {
		addFilePart(t, w, "achievementFile", "edge.pdf", "application/pdf",
			strings.Repeat("x", 8))
	})

	_, staged, stageErr := svc.Stage(req)
	if stageErr != nil {
		t.Fatalf("файл ровно в лимит отклонён: %v", stageErr)
	}
	if len(staged) != 1 || staged[0].Size != 8 {
		t.Errorf("принято %d файлов, размер первого %d", len(staged), staged[0].Size)
	}
}

func TestStage_NotMultipart(t *testing.T) {
	svc := newStagingService(t, 1024)

	req := httptest.NewRequest(http.MethodPost, "/submit-application",
		strings.NewReader("formType=personal"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	_, _, stageErr := svc.Stage(req)
	if stageErr == nil {
		t.Fatal("не multipart-запрос принят без ошибки")
	}
	if stageErr.Code != apierrors.CodeValidationError {
		t.Errorf("код ошибки %q, ожидается %q", stageErr.Code, apierrors.CodeValidationError)
	}
}

func assertStorageEmpty(t *testing.T, dir string) {
	t.Helper()

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("чтение директории хранилища: %v", err)
	}
	for _, e := range entries {
		t.Errorf("в хранилище остался файл %s", filepath.Join(dir, e.Name()))
	}
}
