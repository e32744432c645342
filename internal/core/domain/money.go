package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrInvalidAmount = errors.New("invalid monetary amount")

// Money is a non-negative fixed-point amount with two decimal places,
// stored as an integer number of cents. It marshals to a JSON string
// ("1234.56") so no precision is lost in transit.
type Money int64

// maxUnitDigits bounds the integer part so units*100 cannot overflow int64.
const maxUnitDigits = 15

// ParseMoney parses a decimal string such as "1234.56" or "99". Both parts
// must be plain digit runs: signs, spaces, or a second dot anywhere make the
// whole amount invalid, as do more than two decimal places or more than
// fifteen integer digits.
func ParseMoney(s string) (Money, error) {
	s = strings.TrimSpace(s)

	intPart, fracPart, _ := strings.Cut(s, ".")
	if intPart == "" || len(intPart) > maxUnitDigits || len(fracPart) > 2 {
		return 0, ErrInvalidAmount
	}
	if !digitsOnly(intPart) || !digitsOnly(fracPart) {
		return 0, ErrInvalidAmount
	}

	units, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}

	cents := int64(0)
	if fracPart != "" {
		cents, err = strconv.ParseInt(fracPart, 10, 64)
		if err != nil {
			return 0, ErrInvalidAmount
		}
		if len(fracPart) == 1 {
			cents *= 10
		}
	}

	return Money(units*100 + cents), nil
}

func digitsOnly(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func (m Money) String() string {
	return fmt.Sprintf("%d.%02d", int64(m)/100, int64(m)%100)
}

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(m.String())), nil
}

// UnmarshalJSON accepts either a decimal string ("12.34") or a bare JSON
// number (12.34).
func (m *Money) UnmarshalJSON(data []byte) error {
	s := string(data)
	if unquoted, err := strconv.Unquote(s); err == nil {
		s = unquoted
	}
	parsed, err := ParseMoney(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
