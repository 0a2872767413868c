package notify

import (
	"fmt"

	"github.com/ManuelReschke/LocalBiz/app/models"
)

func uintPtr(v uint) *uint {
	if v == 0 {
		return nil
	}
	return &v
}

// BookingCreated tells the owner a customer requested a booking.
func BookingCreated(b *models.Booking, customerName string) *models.Notification {
	return &models.Notification{
		BusinessID: b.BusinessID,
		UserID:     uintPtr(b.UserID),
		Type:       models.NotificationTypeBooking,
		Title:      fmt.Sprintf("New booking from %s", customerName),
		Message: fmt.Sprintf("%s requested a booking for %s on %s at %s.",
			customerName, b.ServiceName, b.DateString(), b.BookingTime),
	}
}

// BookingStatusChanged tells the customer the owner moved their booking to a new state.
func BookingStatusChanged(b *models.Booking) *models.Notification {
	var title, message string
	switch b.Status {
	case models.BookingStatusConfirmed:
		title = fmt.Sprintf("Booking confirmed: %s", b.ServiceName)
		message = fmt.Sprintf("Your booking for %s on %s at %s was confirmed.", b.ServiceName, b.DateString(), b.BookingTime)
	case models.BookingStatusCancelled:
		title = fmt.Sprintf("Booking cancelled: %s", b.ServiceName)
		message = fmt.Sprintf("Your booking for %s on %s at %s was cancelled.", b.ServiceName, b.DateString(), b.BookingTime)
	case models.BookingStatusCompleted:
		title = fmt.Sprintf("Booking completed: %s", b.ServiceName)
		message = fmt.Sprintf("Your booking for %s on %s at %s was completed. Thank you!", b.ServiceName, b.DateString(), b.BookingTime)
	default:
		title = fmt.Sprintf("Booking updated: %s", b.ServiceName)
		message = fmt.Sprintf("Your booking for %s on %s at %s is now %s.", b.ServiceName, b.DateString(), b.BookingTime, b.Status)
	}
	return &models.Notification{
		BusinessID: b.BusinessID,
		UserID:     uintPtr(b.UserID),
		Type:       models.NotificationTypeBookingUpdate,
		Title:      title,
		Message:    message,
	}
}

// ReviewCreated tells the owner about a new review.
func ReviewCreated(r *models.Review, reviewerName string) *models.Notification {
	return &models.Notification{
		BusinessID: r.BusinessID,
		UserID:     uintPtr(r.UserID),
		Type:       models.NotificationTypeReview,
		Title:      fmt.Sprintf("New review from %s", reviewerName),
		Message:    fmt.Sprintf("%s left a %d star review.", reviewerName, r.Rating),
	}
}

// UpgradeRequested confirms a checkout to the business.
func UpgradeRequested(req *models.PlanUpgradeRequest) *models.Notification {
	return &models.Notification{
		BusinessID: req.BusinessID,
		UserID:     uintPtr(req.RequestedByID),
		Type:       models.NotificationTypePlanUpgrade,
		Title:      fmt.Sprintf("Upgrade to %s requested", req.RequestedPlan),
		Message:    fmt.Sprintf("Your request to upgrade to the %s plan was received and is waiting for approval.", req.RequestedPlan),
	}
}

// UpgradeApproved tells the business its new plan is active.
func UpgradeApproved(req *models.PlanUpgradeRequest) *models.Notification {
	return &models.Notification{
		BusinessID: req.BusinessID,
		UserID:     req.ApprovedByID,
		Type:       models.NotificationTypePlanApproved,
		Title:      fmt.Sprintf("Upgrade to %s approved", req.RequestedPlan),
		Message:    fmt.Sprintf("Your %s plan is now active.", req.RequestedPlan),
	}
}

// UpgradeRejected tells the business why its request was refused.
func UpgradeRejected(req *models.PlanUpgradeRequest) *models.Notification {
	message := fmt.Sprintf("Your request to upgrade to the %s plan was rejected.", req.RequestedPlan)
	if req.RejectReason != "" {
		message += " Reason: " + req.RejectReason
	}
	return &models.Notification{
		BusinessID: req.BusinessID,
		UserID:     req.ApprovedByID,
		Type:       models.NotificationTypePlanRejected,
		Title:      fmt.Sprintf("Upgrade to %s rejected", req.RequestedPlan),
		Message:    message,
	}
}
