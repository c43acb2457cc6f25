package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIDAcceptsNumbersAndStrings(t *testing.T) {
	var payload struct {
		A ID `json:"a"`
		B ID `json:"b"`
		C ID `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a": 42, "b": " T-7 ", "c": null}`), &payload))
	require.Equal(t, ID("42"), payload.A)
	require.Equal(t, ID("T-7"), payload.B)
	require.True(t, payload.C.IsZero())
}

func TestParseStudentStatus(t *testing.T) {
	status, ok := ParseStudentStatus(" Graduated ")
	require.True(t, ok)
	require.Equal(t, StudentStatusGraduated, status)

	_, ok = ParseStudentStatus("enrolled")
	require.False(t, ok)
}

func TestDeriveVoucherStatus(t *testing.T) {
	require.Equal(t, VoucherStatusUnpaid, DeriveVoucherStatus(100, 0))
	require.Equal(t, VoucherStatusPartial, DeriveVoucherStatus(100, 40))
	require.Equal(t, VoucherStatusPaid, DeriveVoucherStatus(100, 100))

	voucher := FeeVoucher{TotalAmount: 50, PaidAmount: 70}
	require.Equal(t, VoucherStatusPaid, voucher.EffectiveStatus())
	require.Zero(t, voucher.Remaining())
}

func TestFormatDate(t *testing.T) {
	require.Equal(t, "March 4, 2024", FormatDate("2024-03-04"))
	require.Equal(t, "March 4, 2024", FormatDate("2024-03-04T10:00:00Z"))
	require.Equal(t, "N/A", FormatDate(""))
	require.Equal(t, "N/A", FormatDate("yesterday"))
}

func TestStudentLabels(t *testing.T) {
	student := Student{FirstName: "Ayesha", LastName: "Khan", ClassName: "Grade 5"}
	require.Equal(t, "Ayesha Khan", student.FullName())
	require.Equal(t, "Grade 5 (N/A)", student.ClassLabel())
}

func TestIDMarshalsNumericIdentifiersAsNumbers(t *testing.T) {
	payload, err := json.Marshal(map[string]ID{"class_id": "12", "teacher_id": "T-7", "empty": ""})
	require.NoError(t, err)
	require.JSONEq(t, `{"class_id": 12, "teacher_id": "T-7", "empty": null}`, string(payload))
}
