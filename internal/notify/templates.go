package notify

import (
	"fmt"
	"html"
	"time"

	"github.com/Windi-Fikriyansyah/platform_be_freelance/internal/models"
)

func minutes(d time.Duration) int { return int(d / time.Minute) }

// OTPMail carries a registration or resend code. The code itself is kept out
// of Data so it never lands in the delivery log.
func OTPMail(u *models.User, code string, ttl time.Duration, resend bool) Notification {
	subject := "Registration Confirmation"
	intro := "You have successfully registered with us."
	if resend {
		subject = "Resend OTP"
		intro = "Here is your new code."
	}
	return Notification{
		Kind:    models.NotifyOTP,
		Email:   u.Email,
		Subject: subject,
		Body: fmt.Sprintf("<p>Hello %s,</p><p>%s Your OTP is <b>%s</b>. It will expire in %d minutes.</p>",
			html.EscapeString(u.Name), intro, code, minutes(ttl)),
		Data: map[string]interface{}{"expires_in_min": minutes(ttl)},
	}
}

func VerifiedMail(u *models.User) Notification {
	return Notification{
		Kind:    models.NotifyVerified,
		UserID:  u.ID,
		Email:   u.Email,
		Subject: "Registration Confirmed!",
		Body:    fmt.Sprintf("<p>Congratulations %s, you have successfully registered with us.</p>", html.EscapeString(u.Name)),
	}
}

func PasswordResetMail(u *models.User, link string, ttl time.Duration) Notification {
	return Notification{
		Kind:    models.NotifyPasswordReset,
		Email:   u.Email,
		Subject: "Password Reset",
		Body: fmt.Sprintf(
			"<p>Hello %s,</p><p>Click the link below to reset your password:</p><p><a href=\"%s\">%s</a></p>"+
				"<p>This link will expire in %d minutes. If you did not request a password reset, please ignore this email.</p>",
			html.EscapeString(u.Name), link, link, minutes(ttl)),
		Data: map[string]interface{}{"expires_in_min": minutes(ttl)},
	}
}

// BidPlaced goes to the job owner.
func BidPlaced(owner *models.User, job *models.Job, bid *models.Bid) Notification {
	n := Notification{
		Kind:    models.NotifyBidPlaced,
		UserID:  job.ClientID,
		Subject: "New bid on " + job.Title,
		Body: fmt.Sprintf("<p>A freelancer bid %d on <b>%s</b> with delivery in %d days.</p>",
			bid.Amount, html.EscapeString(job.Title), bid.DeliveryDays),
		Data: map[string]interface{}{
			"job_id":        job.ID.String(),
			"bid_id":        bid.ID.String(),
			"freelancer_id": bid.FreelancerID.String(),
			"amount":        bid.Amount,
		},
	}
	if owner != nil {
		n.Email = owner.Email
	}
	return n
}

// BidDecided goes to the freelancer whose bid was accepted or rejected.
func BidDecided(freelancer *models.User, job *models.Job, bid *models.Bid) Notification {
	kind := models.NotifyBidRejected
	verb := "rejected"
	if bid.Status == models.BidStatusAccepted {
		kind = models.NotifyBidAccepted
		verb = "accepted"
	}
	n := Notification{
		Kind:    kind,
		UserID:  bid.FreelancerID,
		Subject: fmt.Sprintf("Your bid was %s", verb),
		Body:    fmt.Sprintf("<p>Your bid on <b>%s</b> was %s.</p>", html.EscapeString(job.Title), verb),
		Data: map[string]interface{}{
			"job_id": job.ID.String(),
			"bid_id": bid.ID.String(),
			"status": bid.Status,
		},
	}
	if freelancer != nil {
		n.Email = freelancer.Email
	}
	return n
}

func JobCompleted(freelancer *models.User, job *models.Job, bid *models.Bid) Notification {
	n := Notification{
		Kind:    models.NotifyJobCompleted,
		UserID:  bid.FreelancerID,
		Subject: job.Title + " is completed",
		Body:    fmt.Sprintf("<p>The client marked <b>%s</b> as completed.</p>", html.EscapeString(job.Title)),
		Data: map[string]interface{}{
			"job_id": job.ID.String(),
			"bid_id": bid.ID.String(),
		},
	}
	if freelancer != nil {
		n.Email = freelancer.Email
	}
	return n
}

// MessageReceived is push-only; no email per chat line.
func MessageReceived(m *models.Message) Notification {
	return Notification{
		Kind:   models.NotifyMessageReceived,
		UserID: m.ReceiverID,
		Data: map[string]interface{}{
			"message_id": m.ID.String(),
			"sender_id":  m.SenderID.String(),
			"text":       m.Content,
		},
	}
}
