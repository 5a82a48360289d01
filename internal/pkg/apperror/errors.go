package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorCode string

const (
	ErrCodeNotFound            ErrorCode = "NOT_FOUND"
	ErrCodeUnauthorized        ErrorCode = "UNAUTHORIZED"
	ErrCodeForbidden           ErrorCode = "FORBIDDEN"
	ErrCodeBadRequest          ErrorCode = "BAD_REQUEST"
	ErrCodeConflict            ErrorCode = "CONFLICT"
	ErrCodeInternal            ErrorCode = "INTERNAL_ERROR"
	ErrCodeValidation          ErrorCode = "VALIDATION_ERROR"
	ErrCodeDatabaseError       ErrorCode = "DATABASE_ERROR"
	ErrCodeExternalUnavailable ErrorCode = "EXTERNAL_UNAVAILABLE"
)

type AppError struct {
	Code       ErrorCode
	Message    string
	HTTPStatus int
	Cause      error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is сравнивает ошибки по коду и сообщению, чтобы errors.Is работал
// и для обёрнутых копий sentinel-ошибок.
func (e *AppError) Is(target error) bool {
	var t *AppError
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}

func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
	}
}

func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
		Cause:      err,
	}
}

// Database оборачивает ошибку хранилища. Любая ошибка SQL трактуется одинаково.
func Database(err error, message string) *AppError {
	return Wrap(err, ErrCodeDatabaseError, message)
}

func codeToHTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case ErrCodeForbidden:
		return http.StatusForbidden
	case ErrCodeBadRequest, ErrCodeValidation:
		return http.StatusBadRequest
	case ErrCodeConflict:
		return http.StatusConflict
	case ErrCodeExternalUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func hasCode(err error, code ErrorCode) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

func IsNotFound(err error) bool {
	return hasCode(err, ErrCodeNotFound)
}

func IsForbidden(err error) bool {
	return hasCode(err, ErrCodeForbidden)
}

func IsValidation(err error) bool {
	return hasCode(err, ErrCodeValidation)
}

func IsConflict(err error) bool {
	return hasCode(err, ErrCodeConflict)
}

func IsExternalUnavailable(err error) bool {
	return hasCode(err, ErrCodeExternalUnavailable)
}

var (
	ErrUnauthorized = New(ErrCodeUnauthorized, "требуется авторизация")
	ErrForbidden    = New(ErrCodeForbidden, "недостаточно прав")
	ErrUserNotFound = New(ErrCodeNotFound, "пользователь не найден")

	ErrProjectNotFound    = New(ErrCodeNotFound, "проект не найден")
	ErrProjectNotOpen     = New(ErrCodeConflict, "проект не принимает предложения")
	ErrProjectNotActive   = New(ErrCodeConflict, "проект не находится в работе")
	ErrProjectLocked      = New(ErrCodeConflict, "бюджет, срок и технологии можно менять только у открытого проекта")
	ErrProjectHasAssignee = New(ErrCodeConflict, "нельзя удалить проект с принятым предложением")
	ErrNotProjectOwner    = New(ErrCodeForbidden, "действие доступно только владельцу проекта")
	ErrNotAssignee        = New(ErrCodeForbidden, "действие доступно только назначенному разработчику")
	ErrNotParticipant     = New(ErrCodeForbidden, "вы не являетесь участником проекта")
	ErrNothingToUpdate    = New(ErrCodeValidation, "нужно указать процент прогресса или статус")
	ErrInvalidTransition  = New(ErrCodeConflict, "недопустимый переход статуса проекта")
	ErrProjectChanged     = New(ErrCodeConflict, "проект был изменён другим запросом, обновите данные")

	ErrProposalNotFound   = New(ErrCodeNotFound, "предложение не найдено")
	ErrProposalNotPending = New(ErrCodeConflict, "предложение уже рассмотрено")
	ErrDuplicateBid       = New(ErrCodeConflict, "вы уже отправили предложение на этот проект")

	ErrPaymentNotFound      = New(ErrCodeNotFound, "платёж не найден")
	ErrNoAcceptedProposal   = New(ErrCodeConflict, "у проекта нет принятого предложения")
	ErrMilestoneAlreadyPaid = New(ErrCodeConflict, "этот этап уже оплачен")
	ErrProjectFullyPaid     = New(ErrCodeConflict, "проект уже полностью оплачен")
	ErrPaymentExceedsPrice  = New(ErrCodeConflict, "сумма платежа превышает неоплаченный остаток по проекту")
	ErrInvalidSignature     = New(ErrCodeConflict, "не удалось подтвердить платёж")
	ErrPaymentNotPending    = New(ErrCodeConflict, "платёж нельзя подтвердить в текущем статусе")
	ErrPaymentNotRefundable = New(ErrCodeConflict, "вернуть можно только завершённый платёж")
	ErrGatewayUnavailable   = New(ErrCodeExternalUnavailable, "платёжный шлюз недоступен")

	ErrDisputeNotFound        = New(ErrCodeNotFound, "спор не найден")
	ErrDisputeAlreadyResolved = New(ErrCodeConflict, "спор уже решён")
	ErrInvalidResolution      = New(ErrCodeValidation, "недопустимое решение по спору")

	ErrReviewNotFound  = New(ErrCodeNotFound, "отзыв не найден")
	ErrNoCounterparty  = New(ErrCodeConflict, "у проекта нет второго участника для отзыва")
	ErrDuplicateReview = New(ErrCodeConflict, "вы уже оставили отзыв по этому проекту")

	ErrNotificationNotFound = New(ErrCodeNotFound, "уведомление не найдено")
)
