package reconcile

import "strings"

// digitalLineMask is the printed layout of a voucher's 47 digit line.
const digitalLineMask = "00000.00000 00000.000000 00000.000000 0 00000000000000"

// FormatDigitalLine lays the digits of line out over digitalLineMask. Non
// digits in the input are ignored; a short line yields a partially filled
// mask and digits beyond the mask are dropped.
func FormatDigitalLine(line string) string {
	digits := make([]byte, 0, len(line))
	for i := 0; i < len(line); i++ {
		if line[i] >= '0' && line[i] <= '9' {
			digits = append(digits, line[i])
		}
	}

	var b strings.Builder
	b.Grow(len(digitalLineMask))
	next := 0
	for i := 0; i < len(digitalLineMask) && next < len(digits); i++ {
		if digitalLineMask[i] == '0' {
			b.WriteByte(digits[next])
			next++
			continue
		}
		b.WriteByte(digitalLineMask[i])
	}
	return b.String()
}
