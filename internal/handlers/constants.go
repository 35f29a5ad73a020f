package handlers

// Common error message constants shared across handlers
const (
	ErrMsgInvalidRequestBody = "Invalid request body"
	ErrMsgUnauthorized       = "Unauthorized"
	ErrMsgSpeakerRequired    = "Speaker access required"
	ErrMsgReviewerRequired   = "Reviewer access required"
)

// API path constants
const (
	APIBasePath   = "/api/v1"
	AdminBasePath = APIBasePath + "/admin"
)

// Audit action constants
const (
	AuditActionStatusOverride = "submission.status.override"
	AuditActionDecisionMake   = "submission.decision.make"
	AuditActionDecisionEmail  = "submission.decision.email"
	AuditActionEmailSchedule  = "notification.schedule"
	AuditActionEmailCancel    = "notification.cancel"
	AuditActionEmailSent      = "notification.sent"
	AuditActionEmailFailed    = "notification.failed"
	AuditActionReviewerInvite = "reviewer.invite"
	AuditActionReviewerUpdate = "reviewer.update"
	AuditActionReviewerResend = "reviewer.invite.resend"
	AuditActionReviewerDeact  = "reviewer.deactivate"
	AuditActionReviewerActive = "reviewer.activate"
	AuditActionTagCreate      = "tag.create"
	AuditActionTagDelete      = "tag.delete"
)
