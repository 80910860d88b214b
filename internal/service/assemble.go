// assemble.go — сборка записи заявки из полей формы.
package service

import (
	"net/url"

	"github.com/aqeaw/awards/intake-module/internal/domain/model"
)

// AssembleApplication собирает каноническую запись заявки из текстовых
// полей формы и нормализованного списка достижений.
//
// Чекбоксы приводятся к bool: значение, равное сентинелу "on" — true,
// всё остальное (отсутствие, пустая строка, "off") — false.
// Рекомендатель собирается безусловно из полей с префиксом referrer;
// осмысленность пустого рекомендателя решают потребители записи.
// Валидация полей не выполняется — обязательность делегирована схеме
// хранилища, как в исходном поведении.
func AssembleApplication(values url.Values, achievements []model.Achievement) *model.Application {
	return &model.Application{
		FormKind:      values.Get("formType"),
		SubmitterKind: values.Get("userType"),

		FullName:        values.Get("fullName"),
		ApplicantAge:    values.Get("applicantAge"),
		ApplicantGender: values.Get("applicantGender"),
		Email:           values.Get("email"),
		Phone:           values.Get("phone"),

		OrganizationName:  values.Get("organizationName"),
		OwnerName:         values.Get("ownerName"),
		OrganizationEmail: values.Get("organizationEmail"),
		OrganizationPhone: values.Get("organizationNumber"),

		TribeAffiliation:    values.Get("tribeCheckbox") == model.CheckboxOn,
		SpecificAffiliation: values.Get("specificAffiliation"),

		Achievements: achievements,
		NDAAccepted:  values.Get("ndaAccepted") == model.CheckboxOn,

		Referrer: model.Referrer{
			FullName:         values.Get("referrerFullName"),
			Age:              values.Get("referrerAge"),
			Gender:           values.Get("referrerGender"),
			Email:            values.Get("referrerEmail"),
			Phone:            values.Get("referrerPhone"),
			NominationReason: values.Get("nominationReason"),
		},
	}
}
