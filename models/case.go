package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// CaseStatus represents the screening status of a case
type CaseStatus string

const (
	CaseStatusPending  CaseStatus = "pending"
	CaseStatusApproved CaseStatus = "approved"
	CaseStatusRejected CaseStatus = "rejected"
)

// CaseType represents the category of a scam case
type CaseType string

const (
	CaseTypeDelivery         CaseType = "delivery"
	CaseTypeInsurance        CaseType = "insurance"
	CaseTypeDoorToDoor       CaseType = "door_to_door"
	CaseTypeAppointment      CaseType = "appointment"
	CaseTypeRental           CaseType = "rental"
	CaseTypeRomance          CaseType = "romance"
	CaseTypeSmishing         CaseType = "smishing"
	CaseTypeFalseAdvertising CaseType = "false_advertising"
	CaseTypeSecondhandFraud  CaseType = "secondhand_fraud"
	CaseTypeInvestmentScam   CaseType = "investment_scam"
	CaseTypeAccountTakeover  CaseType = "account_takeover"
	CaseTypeOther            CaseType = "other"
)

// AllCaseTypes lists every case type variant. Keep in sync with CaseTypeLabels.
var AllCaseTypes = []CaseType{
	CaseTypeDelivery,
	CaseTypeInsurance,
	CaseTypeDoorToDoor,
	CaseTypeAppointment,
	CaseTypeRental,
	CaseTypeRomance,
	CaseTypeSmishing,
	CaseTypeFalseAdvertising,
	CaseTypeSecondhandFraud,
	CaseTypeInvestmentScam,
	CaseTypeAccountTakeover,
	CaseTypeOther,
}

// CaseTypeLabels maps each case type to its Korean display label used in
// search documents and prompts.
var CaseTypeLabels = map[CaseType]string{
	CaseTypeDelivery:         "직거래",
	CaseTypeInsurance:        "보험",
	CaseTypeDoorToDoor:       "방문판매",
	CaseTypeAppointment:      "사칭",
	CaseTypeRental:           "전세",
	CaseTypeRomance:          "로맨스스캠",
	CaseTypeSmishing:         "스미싱",
	CaseTypeFalseAdvertising: "허위광고",
	CaseTypeSecondhandFraud:  "중고거래",
	CaseTypeInvestmentScam:   "투자",
	CaseTypeAccountTakeover:  "계정도용",
	CaseTypeOther:            "기타",
}

func init() {
	// A newly added variant must get a label before it can ship.
	for _, t := range AllCaseTypes {
		if _, ok := CaseTypeLabels[t]; !ok {
			panic(fmt.Sprintf("case type %q has no display label", t))
		}
	}
	for _, t := range AllScammerInfoTypes {
		if _, ok := ScammerInfoTypeLabels[t]; !ok {
			panic(fmt.Sprintf("scammer info type %q has no display label", t))
		}
	}
}

// Valid reports whether t is a known case type.
func (t CaseType) Valid() bool {
	_, ok := CaseTypeLabels[t]
	return ok
}

// Label returns the Korean display label for t. Unknown types fall back to the
// raw value so they remain visible rather than disappearing.
func (t CaseType) Label() string {
	if label, ok := CaseTypeLabels[t]; ok {
		return label
	}
	return string(t)
}

// ScammerInfoType represents the kind of scammer detail attached to a case
type ScammerInfoType string

const (
	ScammerInfoName     ScammerInfoType = "name"
	ScammerInfoNickname ScammerInfoType = "nickname"
	ScammerInfoPhone    ScammerInfoType = "phone"
	ScammerInfoAccount  ScammerInfoType = "account"
	ScammerInfoSNSID    ScammerInfoType = "sns_id"
)

// AllScammerInfoTypes lists every scammer info variant. Keep in sync with
// ScammerInfoTypeLabels.
var AllScammerInfoTypes = []ScammerInfoType{
	ScammerInfoName,
	ScammerInfoNickname,
	ScammerInfoPhone,
	ScammerInfoAccount,
	ScammerInfoSNSID,
}

// ScammerInfoTypeLabels maps each info type to its Korean display label.
var ScammerInfoTypeLabels = map[ScammerInfoType]string{
	ScammerInfoName:     "이름",
	ScammerInfoNickname: "닉네임",
	ScammerInfoPhone:    "전화",
	ScammerInfoAccount:  "계좌",
	ScammerInfoSNSID:    "SNS",
}

// Valid reports whether t is a known scammer info type.
func (t ScammerInfoType) Valid() bool {
	_, ok := ScammerInfoTypeLabels[t]
	return ok
}

// Label returns the Korean display label for t.
func (t ScammerInfoType) Label() string {
	if label, ok := ScammerInfoTypeLabels[t]; ok {
		return label
	}
	return string(t)
}

// MaxScammerInfoValueLength bounds a single scammer info value.
const MaxScammerInfoValueLength = 200

// ScammerInfo represents a single piece of information about the scammer,
// owned by its parent case.
type ScammerInfo struct {
	ID       uuid.UUID       `json:"id"`
	CaseID   uuid.UUID       `json:"case_id"`
	InfoType ScammerInfoType `json:"info_type"`
	Value    string          `json:"value"`
}

// Case represents a submitted scam case report.
type Case struct {
	ID             uuid.UUID     `json:"id"`
	UserID         uuid.UUID     `json:"user_id"`
	CaseType       CaseType      `json:"case_type"`
	CaseTypeDetail *string       `json:"case_type_detail"`
	Title          string        `json:"title"`
	Statement      string        `json:"statement"`
	Status         CaseStatus    `json:"status"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
	ScammerInfos   []ScammerInfo `json:"scammer_infos"`
}

var (
	ErrUnknownCaseType       = errors.New("unknown case type")
	ErrMissingTypeDetail     = errors.New("case_type_detail is required when case_type is other")
	ErrUnexpectedTypeDetail  = errors.New("case_type_detail is only allowed when case_type is other")
	ErrEmptyStatement        = errors.New("statement must not be empty")
	ErrUnknownScammerInfo    = errors.New("unknown scammer info type")
	ErrScammerInfoValueLimit = fmt.Errorf("scammer info value exceeds %d characters", MaxScammerInfoValueLength)
)

// Validate checks the intake invariants before any screening happens.
// A detail text is present if and only if the case type is "other".
func (c *Case) Validate() error {
	if !c.CaseType.Valid() {
		return ErrUnknownCaseType
	}
	hasDetail := c.CaseTypeDetail != nil && *c.CaseTypeDetail != ""
	if c.CaseType == CaseTypeOther && !hasDetail {
		return ErrMissingTypeDetail
	}
	if c.CaseType != CaseTypeOther && hasDetail {
		return ErrUnexpectedTypeDetail
	}
	if c.Statement == "" {
		return ErrEmptyStatement
	}
	for _, info := range c.ScammerInfos {
		if !info.InfoType.Valid() {
			return ErrUnknownScammerInfo
		}
		if len([]rune(info.Value)) > MaxScammerInfoValueLength {
			return ErrScammerInfoValueLimit
		}
	}
	return nil
}
