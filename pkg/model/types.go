package model

import internalmodel "github.com/goliatone/go-schemaform/internal/model"

// FieldKind re-exports the internal FieldKind enumeration.
type FieldKind = internalmodel.FieldKind

const (
	FieldKindText        = internalmodel.FieldKindText
	FieldKindTextarea    = internalmodel.FieldKindTextarea
	FieldKindEmail       = internalmodel.FieldKindEmail
	FieldKindURL         = internalmodel.FieldKindURL
	FieldKindPassword    = internalmodel.FieldKindPassword
	FieldKindInteger     = internalmodel.FieldKindInteger
	FieldKindNumber      = internalmodel.FieldKindNumber
	FieldKindDecimal     = internalmodel.FieldKindDecimal
	FieldKindBoolean     = internalmodel.FieldKindBoolean
	FieldKindDate        = internalmodel.FieldKindDate
	FieldKindDateTime    = internalmodel.FieldKindDateTime
	FieldKindTime        = internalmodel.FieldKindTime
	FieldKindDuration    = internalmodel.FieldKindDuration
	FieldKindUUID        = internalmodel.FieldKindUUID
	FieldKindChoice      = internalmodel.FieldKindChoice
	FieldKindMultiChoice = internalmodel.FieldKindMultiChoice
	FieldKindFile        = internalmodel.FieldKindFile
	FieldKindImage       = internalmodel.FieldKindImage
	FieldKindJSON        = internalmodel.FieldKindJSON
	FieldKindHidden      = internalmodel.FieldKindHidden
	FieldKindObject      = internalmodel.FieldKindObject
	FieldKindArray       = internalmodel.FieldKindArray
)

const (
	ValidationRuleMin           = internalmodel.ValidationRuleMin
	ValidationRuleMax           = internalmodel.ValidationRuleMax
	ValidationRuleMinLength     = internalmodel.ValidationRuleMinLength
	ValidationRuleMaxLength     = internalmodel.ValidationRuleMaxLength
	ValidationRulePattern       = internalmodel.ValidationRulePattern
	ValidationRuleMultipleOf    = internalmodel.ValidationRuleMultipleOf
	ValidationRuleMaxDigits     = internalmodel.ValidationRuleMaxDigits
	ValidationRuleDecimalPlaces = internalmodel.ValidationRuleDecimalPlaces
	ValidationRuleMinItems      = internalmodel.ValidationRuleMinItems
	ValidationRuleMaxItems      = internalmodel.ValidationRuleMaxItems
	ValidationRuleRequired      = internalmodel.ValidationRuleRequired
)

type ValidationRule = internalmodel.ValidationRule
type Choice = internalmodel.Choice
type Field = internalmodel.Field
type FormModel = internalmodel.FormModel
