package models

// FeeType names a category of charge, e.g. tuition or transport.
type FeeType struct {
	ID        ID     `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
}

// FeeItem is one line of a voucher.
type FeeItem struct {
	ID        ID      `json:"id"`
	VoucherID ID      `json:"voucher_id"`
	FeeTypeID ID      `json:"fee_type_id"`
	Name      string  `json:"name"`
	Amount    float64 `json:"amount"`
}

// FeeVoucher is a billing document aggregating fee items for a student.
type FeeVoucher struct {
	ID          ID            `json:"id"`
	StudentID   ID            `json:"student_id"`
	StudentName string        `json:"student_name"`
	DueDate     string        `json:"due_date"`
	TotalAmount float64       `json:"total_amount"`
	PaidAmount  float64       `json:"paid_amount"`
	Status      VoucherStatus `json:"status"`
	Items       []FeeItem     `json:"items,omitempty"`
}

// EffectiveStatus returns the backend status, deriving it when absent.
func (v FeeVoucher) EffectiveStatus() VoucherStatus {
	if v.Status != "" {
		return v.Status
	}
	return DeriveVoucherStatus(v.TotalAmount, v.PaidAmount)
}

// Remaining is the unpaid balance of the voucher, never negative.
func (v FeeVoucher) Remaining() float64 {
	remaining := v.TotalAmount - v.PaidAmount
	if remaining < 0 {
		return 0
	}
	return remaining
}
