package locale

import "fmt"

// Message identifies a user-facing string. The UI is Russian-first; the
// message ID doubles as the fallback when a translation is missing.
type Message string

const (
	LoginSuccess        Message = "login_success"
	LoggedOut           Message = "logged_out"
	LoginRequired       Message = "login_required"
	PasswordMismatch    Message = "password_mismatch"
	PasswordsMatch      Message = "passwords_match"
	PasswordGenerated   Message = "password_generated"
	ConnectionError     Message = "connection_error"
	UploadSuccess       Message = "upload_success"
	UploadError         Message = "upload_error"
	UploadConnection    Message = "upload_connection_error"
	ChannelCreated      Message = "channel_created"
	MyChannelDefault    Message = "my_channel_default"
	NoSubscriptions     Message = "no_subscriptions"
	NoNotifications     Message = "no_notifications"
	GenericError        Message = "generic_error"
	StrengthWeak        Message = "strength_weak"
	StrengthMedium      Message = "strength_medium"
	StrengthStrong      Message = "strength_strong"
	StrengthInvalid     Message = "strength_invalid"

	FieldTitle       Message = "field_title"
	FieldDescription Message = "field_description"
	FieldDisplayName Message = "field_display_name"
	UsernameChars    Message = "username_chars"
)

var russian = map[Message]string{
	LoginSuccess:      "Вы успешно вошли!",
	LoggedOut:         "Вы вышли из системы",
	LoginRequired:     "Необходимо войти",
	PasswordMismatch:  "Пароли не совпадают",
	PasswordsMatch:    "Пароли совпадают",
	PasswordGenerated: "Пароль сгенерирован! Скопируйте его.",
	ConnectionError:   "Ошибка подключения к серверу",
	UploadSuccess:     "Видео загружено!",
	UploadError:       "Ошибка загрузки",
	UploadConnection:  "Ошибка подключения",
	ChannelCreated:    "Канал создан!",
	MyChannelDefault:  "Мой канал",
	NoSubscriptions:   "Нет подписок",
	NoNotifications:   "Нет уведомлений",
	GenericError:      "Ошибка",
	StrengthWeak:      "Слабый",
	StrengthMedium:    "Средний",
	StrengthStrong:    "Сильный",
	StrengthInvalid:   "Невалидный",

	FieldTitle:       "Название",
	FieldDescription: "Описание",
	FieldDisplayName: "Отображаемое имя",
	UsernameChars:    "Имя пользователя может содержать только буквы, цифры, подчёркивания и точки",
}

// T resolves a message to its localized text.
func T(m Message) string {
	if s, ok := russian[m]; ok {
		return s
	}
	return string(m)
}

// RegistrationSuccess reports the tag the server assigned to a new account.
func RegistrationSuccess(tag string) string {
	return fmt.Sprintf("Регистрация успешна! Ваш тег: %s", tag)
}

// UploadProgress renders the upload percentage line.
func UploadProgress(percent int) string {
	return fmt.Sprintf("Загрузка: %d%%", percent)
}

// FieldTooLong reports a field over its character limit.
func FieldTooLong(field Message, limit int) string {
	return fmt.Sprintf("%s: не более %d символов", T(field), limit)
}

// UsernameLength reports the allowed username length range.
func UsernameLength(min, max int) string {
	return fmt.Sprintf("Имя пользователя должно быть от %d до %d символов", min, max)
}

// PasswordMinLength reports the minimum password length.
func PasswordMinLength(min int) string {
	return fmt.Sprintf("Пароль должен содержать не менее %d символов", min)
}
