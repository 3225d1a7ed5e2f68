package requesterrors

import (
	"e-approval/internal/shared/apperror"
	"net/http"
)

// NotFound
var (
	ErrRequestNotFound = apperror.New(
		apperror.CodeNotFound,
		"Request not found",
		http.StatusNotFound,
	)

	ErrRequestorNotFound = apperror.New(
		apperror.CodeNotFound,
		"Requestor not found",
		http.StatusNotFound,
	)

	ErrApproverNotFound = apperror.New(
		apperror.CodeNotFound,
		"Approver not found",
		http.StatusNotFound,
	)

	ErrTechnicianNotFound = apperror.New(
		apperror.CodeNotFound,
		"Technician not found",
		http.StatusNotFound,
	)
)

// InvalidArgument
var (
	ErrInvalidRequestID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid request ID",
		http.StatusBadRequest,
	)

	ErrInvalidRequestType = apperror.New(
		apperror.CodeInvalidInput,
		"Request type must be one of LEAVE, PURCHASE, IT_SUPPORT, MAINTENANCE",
		http.StatusBadRequest,
	)

	ErrApprovalsRequired = apperror.New(
		apperror.CodeInvalidInput,
		"At least one approver is required",
		http.StatusBadRequest,
	)

	ErrInvalidApproverID = apperror.New(
		apperror.CodeInvalidInput,
		"Approver ID is invalid",
		http.StatusBadRequest,
	)

	ErrDuplicateApprover = apperror.New(
		apperror.CodeInvalidInput,
		"The same approver cannot appear twice in the approval chain",
		http.StatusBadRequest,
	)

	ErrItemsRequired = apperror.New(
		apperror.CodeInvalidInput,
		"Purchase requests need at least one item",
		http.StatusBadRequest,
	)

	ErrInvalidItem = apperror.New(
		apperror.CodeInvalidInput,
		"Each item needs a name, a positive quantity and a non-negative estimated cost",
		http.StatusBadRequest,
	)

	ErrInvalidLeavePeriod = apperror.New(
		apperror.CodeInvalidInput,
		"Leave start date must not be after the end date",
		http.StatusBadRequest,
	)

	ErrIssueRequired = apperror.New(
		apperror.CodeInvalidInput,
		"Maintenance requests need an issue description",
		http.StatusBadRequest,
	)

	ErrInvalidDetails = apperror.New(
		apperror.CodeInvalidInput,
		"Details must be a JSON object",
		http.StatusBadRequest,
	)

	ErrNotMaintenance = apperror.New(
		apperror.CodeInvalidInput,
		"Only maintenance requests can have a technician",
		http.StatusBadRequest,
	)

	ErrNotTechnician = apperror.New(
		apperror.CodeInvalidInput,
		"Assigned user is not a technician",
		http.StatusBadRequest,
	)

	ErrInvalidTechnicianID = apperror.New(
		apperror.CodeInvalidInput,
		"Technician ID is required",
		http.StatusBadRequest,
	)
)

// Forbidden
var (
	ErrNotAuthorizedToApprove = apperror.New(
		apperror.CodeForbidden,
		"Not authorized to approve this request",
		http.StatusForbidden,
	)

	ErrNotApproverRole = apperror.New(
		apperror.CodeForbidden,
		"Only approvers can assign technicians",
		http.StatusForbidden,
	)

	ErrNotAssignedTechnician = apperror.New(
		apperror.CodeForbidden,
		"Only the assigned technician can update this request",
		http.StatusForbidden,
	)

	ErrNotAllowedToView = apperror.New(
		apperror.CodeForbidden,
		"You do not have access to this request",
		http.StatusForbidden,
	)
)

// FailedPrecondition
var (
	ErrAlreadyProcessed = apperror.New(
		apperror.CodeInvalidState,
		"This approval step has already been processed",
		http.StatusConflict,
	)

	ErrRequestFinalized = apperror.New(
		apperror.CodeInvalidState,
		"Request is no longer pending",
		http.StatusConflict,
	)

	ErrMaintenanceFinished = apperror.New(
		apperror.CodeInvalidState,
		"Maintenance is completed and cannot be updated further",
		http.StatusConflict,
	)

	ErrRequestRejected = apperror.New(
		apperror.CodeInvalidState,
		"Request has been rejected",
		http.StatusConflict,
	)

	ErrNotFullyApproved = apperror.New(
		apperror.CodeInvalidState,
		"Maintenance cannot be completed before the request is fully approved",
		http.StatusConflict,
	)

	ErrSerialConflict = apperror.New(
		apperror.CodeConflict,
		"Serial number already in use, please retry",
		http.StatusConflict,
	)
)
