package errors

import "net/http"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Participant errors
	CodeParticipantInvalidType     Code = "PARTICIPANT_INVALID_TYPE"
	CodeParticipantEmptyName       Code = "PARTICIPANT_EMPTY_NAME"
	CodeParticipantEmptyElectorID  Code = "PARTICIPANT_EMPTY_ELECTOR_ID"
	CodeParticipantEmptyContact    Code = "PARTICIPANT_EMPTY_CONTACT"
	CodeParticipantEmptyID         Code = "PARTICIPANT_EMPTY_ID"
	CodeParticipantNotFound        Code = "PARTICIPANT_NOT_FOUND"
	CodeParticipantDisabled        Code = "PARTICIPANT_DISABLED"
	CodeParticipantAlreadyMatched  Code = "PARTICIPANT_ALREADY_MATCHED"
	CodeParticipantWrongType       Code = "PARTICIPANT_WRONG_TYPE"
	CodeParticipantElectorIDExists Code = "PARTICIPANT_ELECTOR_ID_EXISTS"
	CodeParticipantInvalidStatus   Code = "PARTICIPANT_INVALID_STATUS_FILTER"

	// Match errors
	CodeMatchEmptyID          Code = "MATCH_EMPTY_ID"
	CodeMatchNotFound         Code = "MATCH_NOT_FOUND"
	CodeMatchAlreadyConfirmed Code = "MATCH_ALREADY_CONFIRMED"
	CodeMatchSelfPairing      Code = "MATCH_SELF_PAIRING"
	CodeMatchDispatchFailed   Code = "MATCH_DISPATCH_FAILED"
	CodeMatchConfirmPartial   Code = "MATCH_CONFIRM_PARTIAL"

	// Operator errors
	CodeOperatorTokenInvalid Code = "OPERATOR_TOKEN_INVALID"
	CodeOperatorTokenExpired Code = "OPERATOR_TOKEN_EXPIRED"

	// Storage errors
	CodeNotFound   Code = "NOT_FOUND"
	CodeConflict   Code = "CONFLICT"
	CodeStoreError Code = "STORE_ERROR"
)

// HTTPStatus maps domain codes to HTTP status codes.
func (c Code) HTTPStatus() int {
	switch c {
	// Bad request - validation failures, bad input
	case CodeParticipantInvalidType,
		CodeParticipantEmptyName,
		CodeParticipantEmptyElectorID,
		CodeParticipantEmptyContact,
		CodeParticipantEmptyID,
		CodeParticipantInvalidStatus,
		CodeMatchEmptyID,
		CodeMatchSelfPairing:
		return http.StatusBadRequest

	// Conflict - invariant violations
	case CodeParticipantAlreadyMatched,
		CodeParticipantDisabled,
		CodeParticipantWrongType,
		CodeParticipantElectorIDExists,
		CodeMatchAlreadyConfirmed,
		CodeConflict:
		return http.StatusConflict

	// Not found - resource doesn't exist
	case CodeParticipantNotFound,
		CodeMatchNotFound,
		CodeNotFound:
		return http.StatusNotFound

	// Unauthorized - operator identity rejected
	case CodeOperatorTokenInvalid,
		CodeOperatorTokenExpired:
		return http.StatusUnauthorized

	// Bad gateway - external dispatch failed
	case CodeMatchDispatchFailed:
		return http.StatusBadGateway

	default:
		return http.StatusInternalServerError
	}
}
