package service

import (
	"errors"
	"fmt"

	"pinduca/internal/policy"
)

// Kind classifies a service failure; the HTTP layer maps each kind to a status.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindUnauthenticated
	KindForbidden
	KindNotFound
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	default:
		return "unknown"
	}
}

// Error is a client-facing failure. Message is shown to the user as is.
type Error struct {
	Kind    Kind
	Message string
	Details map[string][]string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Kind.String()
	}
	return e.Message
}

// Is lets the bare kind sentinels (ErrNotFound, ErrForbidden, ...) match any
// error of the same kind, and specific errors match themselves.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Message == "" {
		return t.Kind == e.Kind
	}
	return t.Kind == e.Kind && t.Message == e.Message
}

func newError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Validationf builds a validation error for a single field.
func Validationf(field, format string, args ...any) *Error {
	msg := fmt.Sprintf(format, args...)
	return &Error{
		Kind:    KindValidation,
		Message: "Dados inválidos.",
		Details: map[string][]string{field: {msg}},
	}
}

// Kind sentinels.
var (
	ErrValidation      = &Error{Kind: KindValidation}
	ErrUnauthenticated = &Error{Kind: KindUnauthenticated}
	ErrForbidden       = &Error{Kind: KindForbidden}
	ErrNotFound        = &Error{Kind: KindNotFound}
	ErrConflict        = &Error{Kind: KindConflict}
)

var (
	ErrInvalidCredentials = newError(KindUnauthenticated, "Credenciais inválidas")
	ErrInvalidToken       = newError(KindUnauthenticated, "Token inválido.")
	ErrExpiredToken       = newError(KindUnauthenticated, "Token expirado. Faça login novamente.")
	ErrAuthRequired       = newError(KindUnauthenticated, "Acesso não autorizado. Token não fornecido ou inválido.")
	ErrEmailInUse         = newError(KindConflict, "Este email já está cadastrado.")
	ErrUserNotFound       = newError(KindNotFound, "Usuário não encontrado.")
	ErrUserForbidden      = newError(KindForbidden, "Você só pode gerenciar o seu próprio perfil.")
	ErrUserHasRecords     = newError(KindConflict,
		"Não é possível excluir usuário pois ele possui registros associados (gibis, notas ou comentários).")
	ErrNoUpdateData = newError(KindValidation, "Nenhum dado fornecido para atualização.")
	ErrAdminOnly    = newError(KindForbidden, "Acesso restrito a administradores.")

	ErrComicNotFound     = newError(KindNotFound, "Gibi não encontrado.")
	ErrComicDeleted      = newError(KindForbidden, "Não é possível editar um gibi excluído.")
	ErrComicTitleInUse   = newError(KindConflict, "Um gibi com este título já está cadastrado.")
	ErrComicEditDenied   = newError(KindForbidden, "Permissão negada para editar este gibi.")
	ErrComicDeleteDenied = newError(KindForbidden, "Permissão negada para excluir este gibi.")

	ErrRatingNotFound     = newError(KindNotFound, "Nota não encontrada.")
	ErrRatingEditDenied   = newError(KindForbidden, "Permissão negada para editar esta nota.")
	ErrRatingDeleteDenied = newError(KindForbidden, "Permissão negada para excluir esta nota.")

	ErrCommentNotFound     = newError(KindNotFound, "Comentário não encontrado.")
	ErrCommentEditDenied   = newError(KindForbidden, "Permissão negada para editar este comentário.")
	ErrCommentDeleteDenied = newError(KindForbidden, "Permissão negada para excluir este comentário.")
)

// authorize runs the policy and translates a denial into a service error.
// forbidden is returned for DenyForbidden; DenyUnauthenticated always yields ErrAuthRequired.
func authorize(action policy.Action, resource policy.Resource, ownerID int64, p *policy.Principal, forbidden *Error) error {
	switch policy.Decide(action, resource, ownerID, p) {
	case policy.Allow:
		return nil
	case policy.DenyUnauthenticated:
		return ErrAuthRequired
	default:
		return forbidden
	}
}

// KindOf returns the kind of a service error, or 0 for anything else.
func KindOf(err error) Kind {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr.Kind
	}
	return 0
}
