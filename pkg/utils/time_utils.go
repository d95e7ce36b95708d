package utils

import "time"

// Vietnam time location (ICT, +07:00). VNPay date fields are always ICT.
var vnLoc = func() *time.Location {
	if loc, err := time.LoadLocation("Asia/Ho_Chi_Minh"); err == nil {
		return loc
	}
	return time.FixedZone("ICT", 7*3600)
}()

func VNLocation() *time.Location { return vnLoc }

func NowVN() time.Time { return time.Now().In(vnLoc) }

// FormatVNPayDate renders a timestamp in the gateway's yyyyMMddHHmmss format.
func FormatVNPayDate(t time.Time) string {
	return t.In(vnLoc).Format("20060102150405")
}
