package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/aqeaw/awards/intake-module/internal/domain/model"
	"github.com/aqeaw/awards/intake-module/internal/notify"
	"github.com/aqeaw/awards/intake-module/internal/notify/i18n"
	"github.com/aqeaw/awards/intake-module/internal/storage/filestore"
)

// fakeRepository подменяет MongoDB в тестах конвейера.
type fakeRepository struct {
	insertErr error
	inserted  *model.Application
}

func (r *fakeRepository) Insert(ctx context.Context, app *model.Application) (string, error) {
	if r.insertErr != nil {
		return "", r.insertErr
	}
	r.inserted = app
	return "66cf0a1b2c3d4e5f60718293", nil
}

func (r *fakeRepository) GetByID(ctx context.Context, id string) (*model.Application, error) {
	return nil, errors.New("не используется")
}

// fakeDispatcher подменяет SMTP-отправку.
type fakeDispatcher struct {
	err        error
	dispatched *notify.Notification
}

func (d *fakeDispatcher) Dispatch(ctx context.Context, n *notify.Notification) error {
	if d.err != nil {
		return d.err
	}
	d.dispatched = n
	return nil
}

func newTestRenderer(t *testing.T) *notify.Renderer {
	t.Helper()

	logger := discardLogger()
	bundle := i18n.NewBundle(logger)
	if err := i18n.LoadFromEmbedFS(bundle, logger); err != nil {
		t.Fatalf("загрузка каталогов переводов: %v", err)
	}
	renderer, err := notify.NewRenderer(bundle)
	if err != nil {
		t.Fatalf("создание рендерера: %v", err)
	}
	return renderer
}

func stageTestFile(t *testing.T, store *filestore.FileStore, name, content string) model.StagedFile {
	t.Helper()

	result, err := store.SaveFile(strings.NewReader(content), name)
	if err != nil {
		t.Fatalf("запись тестового файла: %v", err)
	}
	return model.StagedFile{
		OriginalFilename: name,
		StoragePath:      result.StoragePath,
		FullPath:         result.FullPath,
		Size:             result.Size,
		ContentType:      "application/pdf",
	}
}

func testApplication() *model.Application {
	return &model.Application{
		FormKind:      model.FormKindPersonal,
		SubmitterKind: model.SubmitterDirect,
		FullName:      "Ahmed Al-Rashid",
		Email:         "ahmed@example.com",
		Achievements: []model.Achievement{
			{Title: "Award", Description: "Won a thing"},
		},
	}
}

func TestProcess_Success(t *testing.T) {
	store, err := filestore.New(t.TempDir())
	if err != nil {
		t.Fatalf("создание хранилища: %v", err)
	}
	repo := &fakeRepository{}
	dispatcher := &fakeDispatcher{}
	svc := NewSubmissionService(repo, newTestRenderer(t), dispatcher, store,
		time.Second, time.Second, discardLogger())

	staged := []model.StagedFile{
		stageTestFile(t, store, "cert.pdf", "pdf-bytes"),
		stageTestFile(t, store, "extra.pdf", "unreferenced"),
	}

	result, err := svc.Process(context.Background(), testApplication(), staged)
	if err != nil {
		t.Fatalf("обработка заявки: %v", err)
	}

	if result.ID == "" {
		t.Error("пустой идентификатор сохранённой заявки")
	}
	if !result.Notified {
		t.Errorf("уведомление не отправлено: %v", result.NotifyErr)
	}
	if repo.inserted == nil {
		t.Fatal("заявка не передана в репозиторий")
	}
	if dispatcher.dispatched == nil {
		t.Fatal("уведомление не передано в отправку")
	}

	// Все принятые файлы удалены, включая не привязанные к достижениям
	for _, f := range staged {
		if store.FileExists(f.StoragePath) {
			t.Errorf("файл %s не удалён после обработки", f.StoragePath)
		}
	}
}

// TestProcess_DispatchFailure — ошибка отправки не отменяет сохранение:
// результат возвращается без err, но с Notified == false, файлы удаляются.
func TestProcess_DispatchFailure(t *testing.T) {
	store, err := filestore.New(t.TempDir())
	if err != nil {
		t.Fatalf("создание хранилища: %v", err)
	}
	repo := &fakeRepository{}
	dispatcher := &fakeDispatcher{err: errors.New("smtp: connection refused")}
	svc := NewSubmissionService(repo, newTestRenderer(t), dispatcher, store,
		time.Second, time.Second, discardLogger())

	staged := []model.StagedFile{stageTestFile(t, store, "cert.pdf", "pdf-bytes")}

	result, err := svc.Process(context.Background(), testApplication(), staged)
	if err != nil {
		t.Fatalf("ошибка отправки прервала конвейер: %v", err)
	}

	if result.Notified {
		t.Error("Notified == true при ошибке отправки")
	}
	if result.NotifyErr == nil {
		t.Error("NotifyErr пуст при ошибке отправки")
	}
	if result.ID == "" {
		t.Error("идентификатор потерян при ошибке отправки")
	}
	if repo.inserted == nil {
		t.Error("заявка не сохранена")
	}
	if store.FileExists(staged[0].StoragePath) {
		t.Error("файл не удалён после неудачной отправки")
	}
}

// TestProcess_InsertFailure — ошибка сохранения прерывает конвейер:
// уведомление не отправляется.
func TestProcess_InsertFailure(t *testing.T) {
	store, err := filestore.New(t.TempDir())
	if err != nil {
		t.Fatalf("создание хранилища: %v", err)
	}
	repo := &fakeRepository{insertErr: errors.New("mongo: server selection timeout")}
	dispatcher := &fakeDispatcher{}
	svc := NewSubmissionService(repo, newTestRenderer(t), dispatcher, store,
		time.Second, time.Second, discardLogger())

	result, err := svc.Process(context.Background(), testApplication(), nil)
	if err == nil {
		t.Fatal("ошибка сохранения не вернулась из конвейера")
	}
	if result != nil {
		t.Errorf("результат %+v при ошибке сохранения, ожидается nil", result)
	}
	if dispatcher.dispatched != nil {
		t.Error("уведомление отправлено при несохранённой заявке")
	}
}
