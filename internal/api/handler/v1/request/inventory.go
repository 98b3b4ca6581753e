package request

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/dlclark/regexp2"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

const (
	// Not blank, no control characters.
	skuCodeRegexPattern = `^(?!\s*$)[^\x00-\x1F\x7F]{1,255}$`
	skuCodeMaxLength    = 255
)

var (
	skuCodeExp = regexp2.MustCompile(skuCodeRegexPattern, regexp2.None)

	errInvalidSkuCode = errors.New("must not be blank or contain control characters")
)

type InventoryRequest struct {
	SkuCode  string `json:"skuCode" example:"iphone_13"`
	Quantity int    `json:"quantity" example:"100"`
}

func (req *InventoryRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.SkuCode, validation.Required, validation.Length(1, skuCodeMaxLength), validation.By(validSkuCode)),
		validation.Field(&req.Quantity, validation.Min(0)),
	)
}

type BulkInventoryRequest []InventoryRequest

// Validate checks every element so that a bad entry rejects the whole batch
// before anything is written.
func (req BulkInventoryRequest) Validate() error {
	for i := range req {
		if err := req[i].Validate(); err != nil {
			return fmt.Errorf("[%d] %w", i, err)
		}
	}

	return nil
}

// StockCheckRequest keeps quantity as the raw query value so that an empty
// "quantity=" is rejected instead of binding to 0.
type StockCheckRequest struct {
	SkuCode  string `form:"skuCode"`
	Quantity string `form:"quantity"`
}

func (req *StockCheckRequest) Validate() error {
	err := validation.ValidateStruct(
		req,
		validation.Field(&req.SkuCode, validation.Required),
		validation.Field(&req.Quantity, validation.Required, is.Int),
	)
	if err != nil {
		return err
	}

	if _, err := req.QuantityValue(); err != nil {
		return validation.Errors{"quantity": errors.New("must be a valid integer")}
	}

	return nil
}

func (req *StockCheckRequest) QuantityValue() (int, error) {
	return strconv.Atoi(req.Quantity)
}

func validSkuCode(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}

	ok, err := skuCodeExp.MatchString(s)
	if err != nil {
		return err
	}
	if !ok {
		return errInvalidSkuCode
	}

	return nil
}
