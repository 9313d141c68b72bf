package apperrors

import "errors"

// Kind groups errors into the categories the HTTP boundary maps to status codes.
type Kind int

const (
	KindUnknown Kind = iota
	KindInvalidInput
	KindNotFound
	KindNotAuthorized
	KindConflict
	KindUnauthenticated
)

func (k Kind) String() string {
	switch k {
	case KindInvalidInput:
		return "InvalidInput"
	case KindNotFound:
		return "NotFound"
	case KindNotAuthorized:
		return "NotAuthorized"
	case KindConflict:
		return "ConflictViolation"
	case KindUnauthenticated:
		return "Unauthenticated"
	default:
		return "Unknown"
	}
}

// Input errors
var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrInvalidQuery  = errors.New("invalid query")
	ErrInvalidRating = errors.New("rating must be between 1 and 5")
)

// Lookup errors
var (
	ErrNotFound = errors.New("not found")
)

// Authorization errors
var (
	ErrNotAuthorized     = errors.New("not authorized")
	ErrCannotDeleteAdmin = errors.New("cannot delete admin account")
	ErrUnauthenticated   = errors.New("not authenticated")
)

// Uniqueness errors
var (
	ErrDuplicateCartEntry  = errors.New("book already in cart")
	ErrAlreadyReviewed     = errors.New("you already reviewed this seller")
	ErrSelfReviewForbidden = errors.New("you cannot review yourself")
	ErrEmailTaken          = errors.New("user already exists")
)

var kinds = []struct {
	err  error
	kind Kind
}{
	{ErrInvalidInput, KindInvalidInput},
	{ErrInvalidQuery, KindInvalidInput},
	{ErrInvalidRating, KindInvalidInput},
	{ErrNotFound, KindNotFound},
	{ErrNotAuthorized, KindNotAuthorized},
	// admin protection is reported as a bad request, not as missing rights
	{ErrCannotDeleteAdmin, KindInvalidInput},
	{ErrUnauthenticated, KindUnauthenticated},
	{ErrDuplicateCartEntry, KindConflict},
	{ErrAlreadyReviewed, KindConflict},
	{ErrSelfReviewForbidden, KindConflict},
	{ErrEmailTaken, KindConflict},
}

// KindOf classifies err by the first sentinel it wraps.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return KindUnknown
}

// Code returns a stable machine-readable code for err, or "INTERNAL".
func Code(err error) string {
	switch {
	case errors.Is(err, ErrInvalidQuery):
		return "INVALID_QUERY"
	case errors.Is(err, ErrInvalidRating):
		return "INVALID_RATING"
	case errors.Is(err, ErrInvalidInput):
		return "INVALID_INPUT"
	case errors.Is(err, ErrNotFound):
		return "NOT_FOUND"
	case errors.Is(err, ErrCannotDeleteAdmin):
		return "CANNOT_DELETE_ADMIN"
	case errors.Is(err, ErrNotAuthorized):
		return "NOT_AUTHORIZED"
	case errors.Is(err, ErrUnauthenticated):
		return "UNAUTHENTICATED"
	case errors.Is(err, ErrDuplicateCartEntry):
		return "DUPLICATE_CART_ENTRY"
	case errors.Is(err, ErrAlreadyReviewed):
		return "ALREADY_REVIEWED"
	case errors.Is(err, ErrSelfReviewForbidden):
		return "SELF_REVIEW_FORBIDDEN"
	case errors.Is(err, ErrEmailTaken):
		return "EMAIL_TAKEN"
	default:
		return "INTERNAL"
	}
}

// Cause returns the first known sentinel err wraps, or nil.
func Cause(err error) error {
	if err == nil {
		return nil
	}
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.err
		}
	}
	return nil
}
