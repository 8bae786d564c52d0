package notify

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Canonical is the single internal representation of a submission used by
// templates and artifact generation. Callers hand Normalize whatever field
// names their layer uses (camelCase, snake_case, legacy aliases); every
// other component consumes only this shape.
type Canonical struct {
	Name            string
	Email           string
	Phone           string
	Address         string
	Purpose         string
	PaymentRef      string
	Amount          float64
	AmountFormatted string
	Code            string
	Date            time.Time
	DateFormatted   string
}

const notProvided = "Not provided"

var amountPrinter = message.NewPrinter(language.English)

// Normalize produces a fully-populated Canonical from a heterogeneous
// record. It is pure and total: it never fails, and every field has a
// documented fallback even from an empty input.
func Normalize(record map[string]interface{}) Canonical {
	c := Canonical{}

	c.Name = firstString(record, "donorName", "donor_name", "applicantName", "applicant_name", "name", "full_name", "fullName")
	if c.Name == "" {
		if boolValue(record, "anonymous", "isAnonymous", "is_anonymous") {
			c.Name = "Anonymous"
		} else {
			c.Name = "Valued Donor"
		}
	}

	c.Email = fallback(firstString(record, "email", "donorEmail", "donor_email", "applicantEmail", "applicant_email"), notProvided)
	c.Phone = fallback(firstString(record, "phone", "mobile", "phoneNumber", "phone_number", "contact"), notProvided)
	c.Address = fallback(firstString(record, "address", "donorAddress", "donor_address", "fullAddress", "full_address"), notProvided)
	c.Purpose = fallback(firstString(record, "purpose", "donationType", "donation_type", "type", "category", "plan"), "General Donation")
	c.PaymentRef = fallback(firstString(record, "transactionRef", "transaction_ref", "transactionId", "transaction_id", "paymentRef", "payment_ref", "paymentId", "payment_id"), "N/A")

	c.Amount = amountValue(record, "amount", "donationAmount", "donation_amount")
	c.AmountFormatted = amountPrinter.Sprintf("%v", number.Decimal(c.Amount, number.Scale(2)))

	c.Code = firstString(record, "receiptNo", "receipt_no", "receiptCode", "receipt_code", "code", "memberCode", "member_code", "memberId", "member_id")
	if c.Code == "" {
		c.Code = fmt.Sprintf("RCPT%d", time.Now().Unix())
	}

	c.Date = dateValue(record, "date", "donationDate", "donation_date", "createdAt", "created_at", "approvedAt", "approved_at")
	c.DateFormatted = c.Date.Format("02 Jan 2006")

	return c
}

func fallback(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// firstString returns the first non-empty string value among keys
func firstString(record map[string]interface{}, keys ...string) string {
	for _, key := range keys {
		v, ok := record[key]
		if !ok || v == nil {
			continue
		}
		if s, ok := v.(string); ok {
			if trimmed := strings.TrimSpace(s); trimmed != "" {
				return trimmed
			}
		}
	}
	return ""
}

func boolValue(record map[string]interface{}, keys ...string) bool {
	for _, key := range keys {
		switch v := record[key].(type) {
		case bool:
			if v {
				return true
			}
		case string:
			if v == "true" || v == "1" || v == "yes" {
				return true
			}
		}
	}
	return false
}

// amountValue parses the first usable amount; unparseable input yields 0
func amountValue(record map[string]interface{}, keys ...string) float64 {
	for _, key := range keys {
		switch v := record[key].(type) {
		case float64:
			return v
		case float32:
			return float64(v)
		case int:
			return float64(v)
		case int64:
			return float64(v)
		case string:
			s := strings.TrimSpace(strings.ReplaceAll(v, ",", ""))
			if s == "" {
				continue
			}
			if f, err := strconv.ParseFloat(s, 64); err == nil {
				return f
			}
		}
	}
	return 0
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02/01/2006",
	"02-01-2006",
}

// dateValue parses the first usable date; unparseable input yields now
func dateValue(record map[string]interface{}, keys ...string) time.Time {
	for _, key := range keys {
		switch v := record[key].(type) {
		case time.Time:
			if !v.IsZero() {
				return v
			}
		case *time.Time:
			if v != nil && !v.IsZero() {
				return *v
			}
		case string:
			for _, layout := range dateLayouts {
				if t, err := time.Parse(layout, strings.TrimSpace(v)); err == nil {
					return t
				}
			}
		}
	}
	return time.Now()
}
