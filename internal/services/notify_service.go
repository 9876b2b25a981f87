package services

import (
	"fmt"
	"time"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/procurehub/procurement-service/internal/models"
	"github.com/procurehub/procurement-service/internal/utils"
)

const rfpInvitationEmailHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<title>RFP Invitation</title>
<style>
  body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, "Helvetica Neue", Arial, sans-serif; background-color: #f3f4f6; color: #1f2937; margin: 0; padding: 20px; }
  .container { max-width: 600px; margin: auto; background: #fff; border: 1px solid #e5e7eb; border-radius: 8px; }
  .header { background-color: #dbeafe; padding: 15px 20px; border-bottom: 1px solid #bfdbfe; }
  .header h1 { margin: 0; font-size: 20px; color: #1e40af; }
  .content { padding: 20px; }
  .content p { margin-top: 0; }
  ul { list-style: none; padding: 0; }
  li { padding: 8px; border-bottom: 1px solid #eee; }
  li:last-child { border-bottom: none; }
  strong { color: #000; }
</style>
</head>
<body>
  <div class="container">
    <div class="header">
      <h1>%s</h1>
    </div>
    <div class="content">
      <p>You have been invited to bid on a new request for proposal.</p>
      <ul>
        <li><strong>Property:</strong> %s</li>
        <li><strong>Address:</strong> %s</li>
        <li><strong>Coverage Match:</strong> %s</li>
        <li><strong>Bids Due:</strong> %s</li>
      </ul>
    </div>
  </div>
</body>
</html>`

// NotifyService delivers best-effort RFP invitations over email and SMS.
// Either client may be nil; delivery failures are logged, never propagated,
// because publishing an RFP must not fail on a notification outage.
type NotifyService struct {
	sgClient        *sendgrid.Client
	twClient        *twilio.RestClient
	fromEmail       string
	fromPhone       string
	orgName         string
	sendgridSandbox bool
}

func NewNotifyService(
	sgClient *sendgrid.Client,
	twClient *twilio.RestClient,
	fromEmail, fromPhone, orgName string,
	sendgridSandbox bool,
) *NotifyService {
	return &NotifyService{
		sgClient:        sgClient,
		twClient:        twClient,
		fromEmail:       fromEmail,
		fromPhone:       fromPhone,
		orgName:         orgName,
		sendgridSandbox: sendgridSandbox,
	}
}

// SendRFPInvitation notifies one matched vendor that it was invited to bid.
func (n *NotifyService) SendRFPInvitation(vendor *models.Vendor, rfp *models.RFP, property *models.Property, matchType string) {
	subject := fmt.Sprintf("RFP Invitation: %s", rfp.Title)
	plainTextBody := fmt.Sprintf(
		"%s\n\nProperty: %s\nAddress: %s\nCoverage Match: %s\nBids Due: %s",
		subject,
		property.PropertyName,
		property.Address,
		matchType,
		rfp.BidDueAt.Format(time.RFC1123Z),
	)

	// ---------- Twilio SMS ----------
	if n.twClient != nil && vendor.ContactPhone != "" {
		params := &twilioApi.CreateMessageParams{}
		params.SetTo(vendor.ContactPhone)
		params.SetFrom(n.fromPhone)
		params.SetBody(plainTextBody)
		if _, smsErr := n.twClient.Api.CreateMessage(params); smsErr != nil {
			utils.Logger.WithError(smsErr).Warnf("Failed to send RFP SMS to vendor %s", vendor.ID)
		}
	} else if n.twClient == nil {
		utils.Logger.Warnf("Twilio client is nil, skipping SMS to vendor %s", vendor.ID)
	}

	// ---------- SendGrid Email ----------
	if n.sgClient != nil && vendor.ContactEmail != "" {
		htmlBody := fmt.Sprintf(
			rfpInvitationEmailHTML,
			subject,
			property.PropertyName,
			property.Address,
			matchType,
			rfp.BidDueAt.Format(time.RFC1123Z),
		)

		from := mail.NewEmail(n.orgName, n.fromEmail)
		to := mail.NewEmail(vendor.Name, vendor.ContactEmail)
		msg := mail.NewSingleEmail(from, subject, to, plainTextBody, htmlBody)
		msg.TrackingSettings = &mail.TrackingSettings{
			ClickTracking: &mail.ClickTrackingSetting{
				Enable: utils.Ptr(false),
			},
		}
		if n.sendgridSandbox {
			ms := mail.NewMailSettings()
			ms.SetSandboxMode(mail.NewSetting(true))
			msg.MailSettings = ms
		}
		if _, sgErr := n.sgClient.Send(msg); sgErr != nil {
			utils.Logger.WithError(sgErr).Warnf("Email send failure to vendor %s", vendor.ID)
		}
	} else if n.sgClient == nil {
		utils.Logger.Warnf("SendGrid client is nil, skipping email to vendor %s", vendor.ID)
	}
}

// SendOpsAlert emails the operations inbox. Used by the audit sweep when it
// finds version rows whose blob never landed in object storage.
func (n *NotifyService) SendOpsAlert(opsEmail, subject, body string) {
	if n.sgClient == nil {
		utils.Logger.Warn("SendGrid client is nil, skipping ops alert.")
		return
	}

	from := mail.NewEmail(fmt.Sprintf("%s Bot", n.orgName), n.fromEmail)
	to := mail.NewEmail("Operations Team", opsEmail)
	msg := mail.NewSingleEmail(from, fmt.Sprintf("[Internal Alert] %s", subject), to, body, "<pre>"+body+"</pre>")
	if n.sendgridSandbox {
		ms := mail.NewMailSettings()
		ms.SetSandboxMode(mail.NewSetting(true))
		msg.MailSettings = ms
	}
	if _, sgErr := n.sgClient.Send(msg); sgErr != nil {
		utils.Logger.WithError(sgErr).Errorf("Failed to send ops alert to %s", opsEmail)
	}
}
