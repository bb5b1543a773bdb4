package schemavalidator

// Message keys. Keys are stable identifiers; the rendered text may change.
const (
	MsgProcessing = "processing.error"
	MsgStructural = "processing.structural"
)

// Message keys for type-related keywords.
const (
	MsgTypeNoMatch      = "err.common.typeNoMatch"
	MsgDisallowed       = "err.draftv3.disallow.type"
	MsgDisallowedSchema = "err.draftv3.disallow.schema"
	MsgSchemaNoMatch    = "err.common.schema.noMatch"
	MsgAllOfFail        = "err.draftv4.allOf.fail"
	MsgOneOfFail        = "err.draftv4.oneOf.fail"
	MsgNotFail          = "err.draftv4.not.fail"
)

// Message keys for value keywords.
const (
	MsgEnumNotInEnum        = "err.common.enum.notInEnum"
	MsgMinimumTooSmall      = "err.common.minimum.tooSmall"
	MsgMinimumNotExclusive  = "err.common.minimum.notExclusive"
	MsgMaximumTooLarge      = "err.common.maximum.tooLarge"
	MsgMaximumNotExclusive  = "err.common.maximum.notExclusive"
	MsgDivisorRemainder     = "err.common.divisor.nonZeroRemainder"
	MsgMinLengthTooShort    = "err.common.minLength.tooShort"
	MsgMaxLengthTooLong     = "err.common.maxLength.tooLong"
	MsgPatternNoMatch       = "err.common.pattern.noMatch"
	MsgMinItemsTooFew       = "err.common.minItems.arrayTooShort"
	MsgMaxItemsTooMany      = "err.common.maxItems.arrayTooLarge"
	MsgUniqueItemsDuplicate = "err.common.uniqueItems.duplicateElements"
	MsgAdditionalItems      = "err.common.additionalItems.notAllowed"
	MsgAdditionalProperties = "err.common.additionalProperties.notAllowed"
	MsgMissingMembers       = "err.common.object.missingMembers"
	MsgMinPropertiesTooFew  = "err.draftv4.minProperties.tooFew"
	MsgMaxPropertiesTooMany = "err.draftv4.maxProperties.tooMany"
)

// Unchecked processing note attached to the message that replaced an abort.
const UncheckedInfo = "other messages follow (if any)"
