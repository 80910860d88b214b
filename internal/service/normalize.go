// normalize.go — нормализация достижений из полей формы.
// Поля достижений приходят либо одним значением, либо списком —
// url.Values приводит оба случая к списку, поэтому дальнейшая логика
// ветвления не требует.
package service

import (
	"net/url"

	"github.com/aqeaw/awards/intake-module/internal/domain/model"
)

// Имена полей формы для достижений.
// Личная форма и форма организации используют параллельные пары полей.
const (
	fieldAchievementTitle    = "achievementTitle"
	fieldDescription         = "description"
	fieldAchievementTitleOrg = "achievementTitleOrg"
	fieldDescriptionOrg      = "descriptionOrg"
)

// NormalizeAchievements превращает поля формы и принятые файлы
// в упорядоченный список достижений.
//
// Гарантии:
//   - длина результата равна числу заголовков (пустой список — пустой результат);
//   - достижение i получает описание i (пустая строка, если описаний меньше);
//   - достижение i получает файл i, если он принят; один файл не может
//     быть приписан двум достижениям;
//   - файлы сверх числа заголовков остаются без ссылок.
func NormalizeAchievements(values url.Values, files []model.StagedFile) []model.Achievement {
	titleField, descField := fieldAchievementTitle, fieldDescription
	if values.Get("formType") == model.FormKindOrganization {
		titleField, descField = fieldAchievementTitleOrg, fieldDescriptionOrg
	}

	titles := values[titleField]
	descriptions := values[descField]

	achievements := make([]model.Achievement, 0, len(titles))
	for i, title := range titles {
		var description string
		if i < len(descriptions) {
			description = descriptions[i]
		}

		var filePath string
		if i < len(files) {
			filePath = files[i].FullPath
		}

		achievements = append(achievements, model.Achievement{
			Title:       title,
			Description: description,
			FilePath:    filePath,
		})
	}

	return achievements
}
