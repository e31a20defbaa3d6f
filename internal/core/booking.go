package core

import (
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

// BookingStatus is the confirmation state of a booking.
type BookingStatus string

const (
	BookingPending   BookingStatus = "PENDING"
	BookingConfirmed BookingStatus = "CONFIRMED"
)

// Booking is one shipment row of a bookings sheet.
//
// Text fields are never null; an empty cell is "". Dates, integers and
// decimals are null when the cell was blank or could not be parsed.
type Booking struct {
	BookingID int64         `json:"booking_id"`
	Status    BookingStatus `json:"status"`
	UploadID  uuid.UUID     `json:"upload_id"`

	No            pgtype.Int8         `json:"no"`
	PlMod         string              `json:"pl_mod"`
	Modd          string              `json:"modd"`
	Shipper       string              `json:"shipper"`
	CustomerCode  string              `json:"customer_code"`
	BookingNo     string              `json:"booking_no"`
	BookingStatus string              `json:"booking_status"`
	BLNo          string              `json:"bl_no"`
	BLStatus      string              `json:"bl_status"`
	DocLink       string              `json:"doc_link"`
	CntNo         string              `json:"cnt_no"`
	UnitM3        decimal.NullDecimal `json:"unit_m3"`
	NOC           pgtype.Int8         `json:"noc"`
	Line          string              `json:"line"`
	OpenDate      pgtype.Date         `json:"open_date"`
	CutDate       pgtype.Date         `json:"cut_date"`
	ETD           pgtype.Date         `json:"etd"`
	ETA           pgtype.Date         `json:"eta"`
	Vessel        string              `json:"vessel"`
	Voyage        string              `json:"voyage"`
	POL           string              `json:"pol"`
	POD           string              `json:"pod"`
	PBaseBOF      decimal.NullDecimal `json:"p_base_bof"`
	PBOF          decimal.NullDecimal `json:"p_bof"`
	PCRS          decimal.NullDecimal `json:"p_crs"`
	PCDD          decimal.NullDecimal `json:"p_cdd"`
	PTHC          decimal.NullDecimal `json:"p_thc"`
	PSeal         decimal.NullDecimal `json:"p_seal"`
	PDocStar      decimal.NullDecimal `json:"p_doc_star"`
	PDoc          decimal.NullDecimal `json:"p_doc"`
	POthers       decimal.NullDecimal `json:"p_others"`
	PTaxableTotal decimal.NullDecimal `json:"p_taxable_ttl"`
	PVAT          decimal.NullDecimal `json:"p_vat"`
	PExVATTotal   decimal.NullDecimal `json:"p_exvat_ttl"`
	PPayTotal     decimal.NullDecimal `json:"p_pay_ttl"`
	SInvDate      pgtype.Date         `json:"s_inv_date"`
	SInvNo        string              `json:"s_inv_no"`
	SLink         string              `json:"s_link"`
	Days          pgtype.Text         `json:"days"`
	PayDate       pgtype.Date         `json:"pay_date"`
	USDEx         decimal.NullDecimal `json:"usd_ex"`
	EUREx         decimal.NullDecimal `json:"eur_ex"`
	RBaseBOF      decimal.NullDecimal `json:"r_base_bof"`
	RBOF          decimal.NullDecimal `json:"r_bof"`
	RCRS          decimal.NullDecimal `json:"r_crs"`
	RCDD          decimal.NullDecimal `json:"r_cdd"`
	RTHC          decimal.NullDecimal `json:"r_thc"`
	RSeal         decimal.NullDecimal `json:"r_seal"`
	RDoc          decimal.NullDecimal `json:"r_doc"`
	ROthers       decimal.NullDecimal `json:"r_others"`
	RTaxableTotal decimal.NullDecimal `json:"r_taxable_ttl"`
	RVAT          decimal.NullDecimal `json:"r_vat"`
	RExVATTotal   decimal.NullDecimal `json:"r_exvat_ttl"`
	RAdjustments  decimal.NullDecimal `json:"r_adjustments"`
	RecTotal      decimal.NullDecimal `json:"rec_ttl"`
	CInvDate      pgtype.Date         `json:"c_inv_date"`
	CInvNo        string              `json:"c_inv_no"`
	CLink         string              `json:"c_link"`
	RecDate       pgtype.Date         `json:"rec_date"`
	Profit        decimal.NullDecimal `json:"profit"`
}

// BookingSchema lists the sheet columns of a bookings upload in their
// positional order.
var BookingSchema = Schema{
	{Name: "no", Kind: FieldInteger},
	{Name: "pl_mod", Kind: FieldText},
	{Name: "modd", Kind: FieldText},
	{Name: "shipper", Kind: FieldText},
	{Name: "customer_code", Kind: FieldText},
	{Name: "booking_no", Kind: FieldText},
	{Name: "booking_status", Kind: FieldText},
	{Name: "bl_no", Kind: FieldText},
	{Name: "bl_status", Kind: FieldText},
	{Name: "doc_link", Kind: FieldText},
	{Name: "cnt_no", Kind: FieldText},
	{Name: "unit_m3", Kind: FieldDecimal},
	{Name: "noc", Kind: FieldInteger},
	{Name: "line", Kind: FieldText},
	{Name: "open_date", Kind: FieldDate},
	{Name: "cut_date", Kind: FieldDate},
	{Name: "etd", Kind: FieldDate},
	{Name: "eta", Kind: FieldDate},
	{Name: "vessel", Kind: FieldText},
	{Name: "voyage", Kind: FieldText},
	{Name: "pol", Kind: FieldText},
	{Name: "pod", Kind: FieldText},
	{Name: "p_base_bof", Kind: FieldDecimal},
	{Name: "p_bof", Kind: FieldDecimal},
	{Name: "p_crs", Kind: FieldDecimal},
	{Name: "p_cdd", Kind: FieldDecimal},
	{Name: "p_thc", Kind: FieldDecimal},
	{Name: "p_seal", Kind: FieldDecimal},
	{Name: "p_doc_star", Kind: FieldDecimal},
	{Name: "p_doc", Kind: FieldDecimal},
	{Name: "p_others", Kind: FieldDecimal},
	{Name: "p_taxable_ttl", Kind: FieldDecimal},
	{Name: "p_vat", Kind: FieldDecimal},
	{Name: "p_exvat_ttl", Kind: FieldDecimal},
	{Name: "p_pay_ttl", Kind: FieldDecimal},
	{Name: "s_inv_date", Kind: FieldDate},
	{Name: "s_inv_no", Kind: FieldText},
	{Name: "s_link", Kind: FieldText},
	{Name: "days", Kind: FieldPassThrough},
	{Name: "pay_date", Kind: FieldDate},
	{Name: "usd_ex", Kind: FieldDecimal},
	{Name: "eur_ex", Kind: FieldDecimal},
	{Name: "r_base_bof", Kind: FieldDecimal},
	{Name: "r_bof", Kind: FieldDecimal},
	{Name: "r_crs", Kind: FieldDecimal},
	{Name: "r_cdd", Kind: FieldDecimal},
	{Name: "r_thc", Kind: FieldDecimal},
	{Name: "r_seal", Kind: FieldDecimal},
	{Name: "r_doc", Kind: FieldDecimal},
	{Name: "r_others", Kind: FieldDecimal},
	{Name: "r_taxable_ttl", Kind: FieldDecimal},
	{Name: "r_vat", Kind: FieldDecimal},
	{Name: "r_exvat_ttl", Kind: FieldDecimal},
	{Name: "r_adjustments", Kind: FieldDecimal},
	{Name: "rec_ttl", Kind: FieldDecimal},
	{Name: "c_inv_date", Kind: FieldDate},
	{Name: "c_inv_no", Kind: FieldText},
	{Name: "c_link", Kind: FieldText},
	{Name: "rec_date", Kind: FieldDate},
	{Name: "profit", Kind: FieldDecimal},
}

// BookingFields is BookingSchema's names, used for positional binding.
var BookingFields = BookingSchema.Names()

// BookingFromRow builds a pending Booking from a normalized row.
func BookingFromRow(r NormalizedRow) Booking {
	return Booking{
		Status: BookingPending,

		No:            r.Int("no"),
		PlMod:         r.Text("pl_mod"),
		Modd:          r.Text("modd"),
		Shipper:       r.Text("shipper"),
		CustomerCode:  r.Text("customer_code"),
		BookingNo:     r.Text("booking_no"),
		BookingStatus: r.Text("booking_status"),
		BLNo:          r.Text("bl_no"),
		BLStatus:      r.Text("bl_status"),
		DocLink:       r.Text("doc_link"),
		CntNo:         r.Text("cnt_no"),
		UnitM3:        r.Decimal("unit_m3"),
		NOC:           r.Int("noc"),
		Line:          r.Text("line"),
		OpenDate:      r.Date("open_date"),
		CutDate:       r.Date("cut_date"),
		ETD:           r.Date("etd"),
		ETA:           r.Date("eta"),
		Vessel:        r.Text("vessel"),
		Voyage:        r.Text("voyage"),
		POL:           r.Text("pol"),
		POD:           r.Text("pod"),
		PBaseBOF:      r.Decimal("p_base_bof"),
		PBOF:          r.Decimal("p_bof"),
		PCRS:          r.Decimal("p_crs"),
		PCDD:          r.Decimal("p_cdd"),
		PTHC:          r.Decimal("p_thc"),
		PSeal:         r.Decimal("p_seal"),
		PDocStar:      r.Decimal("p_doc_star"),
		PDoc:          r.Decimal("p_doc"),
		POthers:       r.Decimal("p_others"),
		PTaxableTotal: r.Decimal("p_taxable_ttl"),
		PVAT:          r.Decimal("p_vat"),
		PExVATTotal:   r.Decimal("p_exvat_ttl"),
		PPayTotal:     r.Decimal("p_pay_ttl"),
		SInvDate:      r.Date("s_inv_date"),
		SInvNo:        r.Text("s_inv_no"),
		SLink:         r.Text("s_link"),
		Days:          r.Raw("days"),
		PayDate:       r.Date("pay_date"),
		USDEx:         r.Decimal("usd_ex"),
		EUREx:         r.Decimal("eur_ex"),
		RBaseBOF:      r.Decimal("r_base_bof"),
		RBOF:          r.Decimal("r_bof"),
		RCRS:          r.Decimal("r_crs"),
		RCDD:          r.Decimal("r_cdd"),
		RTHC:          r.Decimal("r_thc"),
		RSeal:         r.Decimal("r_seal"),
		RDoc:          r.Decimal("r_doc"),
		ROthers:       r.Decimal("r_others"),
		RTaxableTotal: r.Decimal("r_taxable_ttl"),
		RVAT:          r.Decimal("r_vat"),
		RExVATTotal:   r.Decimal("r_exvat_ttl"),
		RAdjustments:  r.Decimal("r_adjustments"),
		RecTotal:      r.Decimal("rec_ttl"),
		CInvDate:      r.Date("c_inv_date"),
		CInvNo:        r.Text("c_inv_no"),
		CLink:         r.Text("c_link"),
		RecDate:       r.Date("rec_date"),
		Profit:        r.Decimal("profit"),
	}
}
