// Пакет model — доменные модели Intake Module.
// application.go — заявка (Application), достижения и рекомендатель.
// Структура документа повторяет коллекцию applications в MongoDB.
package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Вид формы: от чьего имени подаётся заявка.
const (
	// FormKindPersonal — личная заявка.
	FormKindPersonal = "personal"
	// FormKindOrganization — заявка от организации.
	FormKindOrganization = "organization"
)

// Вид подателя: кто заполняет форму.
const (
	// SubmitterDirect — сам заявитель.
	SubmitterDirect = "direct"
	// SubmitterReferral — рекомендатель номинирует заявителя.
	SubmitterReferral = "referral"
)

// CheckboxOn — значение, которое браузер передаёт для отмеченного чекбокса.
const CheckboxOn = "on"

// Application — заявка на участие в премии. Один документ коллекции
// applications. После сохранения документ не изменяется.
type Application struct {
	ID primitive.ObjectID `bson:"_id,omitempty"`

	// FormKind — personal или organization.
	FormKind string `bson:"formType"`
	// SubmitterKind — direct или referral (может отсутствовать).
	SubmitterKind string `bson:"userType,omitempty"`

	// --- Поля заявителя (заполняются при FormKind == personal) ---

	FullName        string `bson:"fullName,omitempty"`
	ApplicantAge    string `bson:"applicantAge,omitempty"`
	ApplicantGender string `bson:"applicantGender,omitempty"`
	Email           string `bson:"email,omitempty"`
	Phone           string `bson:"phone,omitempty"`

	// --- Поля организации (заполняются при FormKind == organization) ---

	OrganizationName  string `bson:"organizationName,omitempty"`
	OwnerName         string `bson:"ownerName,omitempty"`
	OrganizationEmail string `bson:"organizationEmail,omitempty"`
	OrganizationPhone string `bson:"organizationNumber,omitempty"`

	// TribeAffiliation — флаг племенной принадлежности (чекбокс).
	TribeAffiliation bool `bson:"tribeCheckbox"`
	// SpecificAffiliation — уточнение принадлежности, свободный текст.
	SpecificAffiliation string `bson:"specificAffiliation,omitempty"`

	// Achievements — упорядоченный список достижений. Порядок совпадает
	// с порядком ввода в форме и с порядком сопоставления файлов.
	Achievements []Achievement `bson:"achievements"`

	// NDAAccepted — принятие соглашения о неразглашении.
	// Фиксируется как есть: false не отклоняет заявку.
	NDAAccepted bool `bson:"ndaAccepted"`

	// Referrer — рекомендатель. Всегда присутствует в документе;
	// осмыслен только при SubmitterKind == referral.
	Referrer Referrer `bson:"referrer"`

	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

// Achievement — одно достижение заявителя.
type Achievement struct {
	// Title — название достижения.
	Title string `bson:"title"`
	// Description — описание достижения.
	Description string `bson:"description"`
	// FilePath — путь приложенного файла в uploads. Пустая строка — файла нет.
	FilePath string `bson:"filePath,omitempty"`
}

// HasFile сообщает, приложен ли к достижению файл.
func (a Achievement) HasFile() bool {
	return a.FilePath != ""
}

// Referrer — рекомендатель заявителя. Все поля опциональны по отдельности,
// группа осмыслена только целиком.
type Referrer struct {
	FullName         string `bson:"fullName,omitempty"`
	Age              string `bson:"age,omitempty"`
	Gender           string `bson:"gender,omitempty"`
	Email            string `bson:"email,omitempty"`
	Phone            string `bson:"phone,omitempty"`
	NominationReason string `bson:"nominationReason,omitempty"`
}
