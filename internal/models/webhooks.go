package models

import "encoding/xml"

// InboundWebhookPayload is the nested JSON envelope some carrier
// integrations deliver to /receive-sms. Field names match the flat
// form-encoded shape; Body and SmsBody are alternate names for the
// message text.
type InboundWebhookPayload struct {
	Payload struct {
		From    string `json:"From"`
		To      string `json:"To"`
		Body    string `json:"Body"`
		SmsBody string `json:"SmsBody"`
	} `json:"payload"`
}

// InboundMessage is the normalized result of parsing an inbound
// webhook, whichever shape it arrived in. Missing fields stay empty.
type InboundMessage struct {
	From string
	To   string
	Body string
}

// TwiML is the markup reply the carrier expects from /receive-sms.
type TwiML struct {
	XMLName xml.Name `xml:"Response"`
	Message string   `xml:"Message"`
}

// InboundAckMessage is the fixed acknowledgement returned for every
// inbound message.
const InboundAckMessage = "Thanks - we received your message."
