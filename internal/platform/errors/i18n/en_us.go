package i18n

// Error codes must match the codes defined in internal/platform/errors/codes.go.
// These are duplicated as strings to avoid an import cycle.
const (
	CodeParticipantInvalidType     = "PARTICIPANT_INVALID_TYPE"
	CodeParticipantEmptyName       = "PARTICIPANT_EMPTY_NAME"
	CodeParticipantEmptyElectorID  = "PARTICIPANT_EMPTY_ELECTOR_ID"
	CodeParticipantEmptyContact    = "PARTICIPANT_EMPTY_CONTACT"
	CodeParticipantEmptyID         = "PARTICIPANT_EMPTY_ID"
	CodeParticipantNotFound        = "PARTICIPANT_NOT_FOUND"
	CodeParticipantDisabled        = "PARTICIPANT_DISABLED"
	CodeParticipantAlreadyMatched  = "PARTICIPANT_ALREADY_MATCHED"
	CodeParticipantWrongType       = "PARTICIPANT_WRONG_TYPE"
	CodeParticipantElectorIDExists = "PARTICIPANT_ELECTOR_ID_EXISTS"
	CodeParticipantInvalidStatus   = "PARTICIPANT_INVALID_STATUS_FILTER"
	CodeMatchEmptyID               = "MATCH_EMPTY_ID"
	CodeMatchNotFound              = "MATCH_NOT_FOUND"
	CodeMatchAlreadyConfirmed      = "MATCH_ALREADY_CONFIRMED"
	CodeMatchSelfPairing           = "MATCH_SELF_PAIRING"
	CodeMatchDispatchFailed        = "MATCH_DISPATCH_FAILED"
	CodeMatchConfirmPartial        = "MATCH_CONFIRM_PARTIAL"
	CodeOperatorTokenInvalid       = "OPERATOR_TOKEN_INVALID"
	CodeOperatorTokenExpired       = "OPERATOR_TOKEN_EXPIRED"
	CodeNotFound                   = "NOT_FOUND"
	CodeConflict                   = "CONFLICT"
	CodeStoreError                 = "STORE_ERROR"
)

var enUSCatalog = &Catalog{
	locale: "en-US",
	messages: map[Code]string{
		// Participant errors
		CodeParticipantInvalidType:     "Participant type must be requester or volunteer",
		CodeParticipantEmptyName:       "First and last name are required",
		CodeParticipantEmptyElectorID:  "National elector number is required",
		CodeParticipantEmptyContact:    "A phone number or email address is required",
		CodeParticipantEmptyID:         "Participant id is required",
		CodeParticipantNotFound:        "Participant not found",
		CodeParticipantDisabled:        "Participant {{.ParticipantID}} is disabled and cannot be matched",
		CodeParticipantAlreadyMatched:  "Participant {{.ParticipantID}} already has an active procuration",
		CodeParticipantWrongType:       "Participant {{.ParticipantID}} is not a {{.ExpectedType}}",
		CodeParticipantElectorIDExists: "A {{.Type}} with this elector number is already registered",
		CodeParticipantInvalidStatus:   "Status filter must be pending, matched, or all",

		// Match errors
		CodeMatchEmptyID:          "Match id is required",
		CodeMatchNotFound:         "Match not found",
		CodeMatchAlreadyConfirmed: "This procuration has already been confirmed",
		CodeMatchSelfPairing:      "A participant cannot be matched with themselves",
		CodeMatchDispatchFailed:   "Contact emails could not be sent; the match is still pending",
		CodeMatchConfirmPartial:   "Contact emails were sent but the match status could not be recorded; reconcile manually",

		// Operator errors
		CodeOperatorTokenInvalid: "Operator token is invalid",
		CodeOperatorTokenExpired: "Operator token has expired",

		// Storage errors
		CodeNotFound:   "Record not found",
		CodeConflict:   "The record was modified concurrently",
		CodeStoreError: "The record store is unavailable",
	},
}
