package notice

// Documentation sections shared by the built-in kinds.
const (
	SectionFileRequirements  = "file-requirements"
	SectionFieldDefinitions  = "field-definitions"
	SectionDatasetFiles      = "dataset-files"
	SectionFieldTypes        = "field-types"
	SectionSystemDiagnostics = "system-diagnostics"
)

// Frequently used context field descriptions.
var (
	fieldFilename  = FieldDoc{Name: "filename", Description: "The name of the faulty file."}
	fieldRow       = FieldDoc{Name: "csvRowNumber", Description: "The row number of the faulty record, 1-based with the header excluded."}
	fieldFieldName = FieldDoc{Name: "fieldName", Description: "The name of the faulty field."}
	fieldValue     = FieldDoc{Name: "fieldValue", Description: "The raw value of the faulty field."}
	fieldType      = FieldDoc{Name: "fieldType", Description: "The declared type of the field."}
	fieldException = FieldDoc{Name: "exception", Description: "The type name of the failure."}
	fieldMessage   = FieldDoc{Name: "message", Description: "The failure message, empty when there is none."}
)

// Kinds raised while reading and loading dataset files.
var (
	EmptyRow = Define(Descriptor{
		Name:        "EmptyRowNotice",
		Severity:    SeverityWarning,
		Description: "A row in the input file has only spaces or is empty. The row is skipped.",
		Fields:      []FieldDoc{fieldFilename, fieldRow},
		Sections:    []string{SectionFileRequirements},
	})

	EmptyFile = Define(Descriptor{
		Name:        "EmptyFileNotice",
		Severity:    SeverityError,
		Description: "A dataset file has no header row.",
		Fields:      []FieldDoc{fieldFilename},
		Sections:    []string{SectionFileRequirements},
	})

	FieldParseError = Define(Descriptor{
		Name:        "FieldParseErrorNotice",
		Severity:    SeverityError,
		Description: "A field value cannot be parsed as its declared type. The field is treated as absent.",
		Fields: []FieldDoc{
			fieldFilename, fieldRow, fieldFieldName, fieldType, fieldValue,
			{Name: "reason", Description: "Why the value was rejected."},
		},
		Sections: []string{SectionFieldTypes},
	})

	MissingRequiredField = Define(Descriptor{
		Name:        "MissingRequiredFieldNotice",
		Severity:    SeverityError,
		Description: "A required field is empty in a record.",
		Fields:      []FieldDoc{fieldFilename, fieldRow, fieldFieldName},
		Sections:    []string{SectionFieldDefinitions},
	})

	MissingRequiredColumn = Define(Descriptor{
		Name:        "MissingRequiredColumnNotice",
		Severity:    SeverityError,
		Description: "A required column is missing from the header of a file.",
		Fields:      []FieldDoc{fieldFilename, fieldFieldName},
		Sections:    []string{SectionFieldDefinitions},
	})

	DuplicatedColumn = Define(Descriptor{
		Name:        "DuplicatedColumnNotice",
		Severity:    SeverityError,
		Description: "The same column name appears more than once in a header. Only the first occurrence is read.",
		Fields: []FieldDoc{
			fieldFilename, fieldFieldName,
			{Name: "firstIndex", Description: "The 1-based position of the first occurrence."},
			{Name: "secondIndex", Description: "The 1-based position of the repeated occurrence."},
		},
		Sections: []string{SectionFileRequirements},
	})

	UnknownColumn = Define(Descriptor{
		Name:        "UnknownColumnNotice",
		Severity:    SeverityInfo,
		Description: "A column is not part of the file's schema and is ignored.",
		Fields: []FieldDoc{
			fieldFilename, fieldFieldName,
			{Name: "index", Description: "The 1-based position of the column."},
		},
	})

	EmptyColumnName = Define(Descriptor{
		Name:        "EmptyColumnNameNotice",
		Severity:    SeverityError,
		Description: "A column in the header has an empty name.",
		Fields: []FieldDoc{
			fieldFilename,
			{Name: "index", Description: "The 1-based position of the column."},
		},
		Sections: []string{SectionFileRequirements},
	})

	MissingRequiredFile = Define(Descriptor{
		Name:        "MissingRequiredFileNotice",
		Severity:    SeverityError,
		Description: "A file that every dataset must contain is missing.",
		Fields:      []FieldDoc{fieldFilename},
		Sections:    []string{SectionDatasetFiles},
	})

	UnknownFile = Define(Descriptor{
		Name:        "UnknownFileNotice",
		Severity:    SeverityInfo,
		Description: "A file in the dataset has no schema and is not read.",
		Fields:      []FieldDoc{fieldFilename},
		Sections:    []string{SectionDatasetFiles},
	})

	DuplicateKey = Define(Descriptor{
		Name:        "DuplicateKeyNotice",
		Severity:    SeverityError,
		Description: "Two records in a file share the same primary key. Lookups resolve to the first record.",
		Fields: []FieldDoc{
			fieldFilename, fieldFieldName, fieldValue,
			{Name: "oldCsvRowNumber", Description: "The row of the record that keeps the key."},
			{Name: "newCsvRowNumber", Description: "The row of the duplicate record."},
		},
		Sections: []string{SectionFieldDefinitions},
	})

	ForeignKeyViolation = Define(Descriptor{
		Name:        "ForeignKeyViolationNotice",
		Severity:    SeverityError,
		Description: "A foreign key value does not match any primary key in the referenced file.",
		Fields: []FieldDoc{
			{Name: "childFilename", Description: "The file holding the reference."},
			{Name: "childFieldName", Description: "The referencing field."},
			{Name: "parentFilename", Description: "The referenced file."},
			{Name: "parentFieldName", Description: "The referenced primary key field."},
			fieldValue,
			fieldRow,
		},
		Sections: []string{SectionFieldDefinitions},
	})

	NumberOutOfRange = Define(Descriptor{
		Name:        "NumberOutOfRangeNotice",
		Severity:    SeverityError,
		Description: "A numeric value lies outside the range allowed for its type.",
		Fields: []FieldDoc{
			fieldFilename, fieldRow, fieldFieldName, fieldType, fieldValue,
			{Name: "allowedRange", Description: "The inclusive interval the value must fall into."},
		},
		Sections: []string{SectionFieldTypes},
	})

	UnexpectedEnumValue = Define(Descriptor{
		Name:        "UnexpectedEnumValueNotice",
		Severity:    SeverityWarning,
		Description: "An enumerated field holds a value outside the allowed set.",
		Fields:      []FieldDoc{fieldFilename, fieldRow, fieldFieldName, fieldValue},
		Sections:    []string{SectionFieldTypes},
	})

	LeadingOrTrailingWhitespaces = Define(Descriptor{
		Name:        "LeadingOrTrailingWhitespacesNotice",
		Severity:    SeverityWarning,
		Description: "A value has leading or trailing whitespace. It is read with the whitespace removed.",
		Fields:      []FieldDoc{fieldFilename, fieldRow, fieldFieldName, fieldValue},
		Sections:    []string{SectionFieldTypes},
	})

	CsvParsingFailed = Define(Descriptor{
		Name:        "CsvParsingFailedNotice",
		Severity:    SeverityError,
		Description: "A file could not be tokenized. Rows after the failure are not read.",
		Fields: []FieldDoc{
			fieldFilename,
			{Name: "lineIndex", Description: "The 1-based line at which tokenizing failed."},
			fieldMessage,
		},
		Sections: []string{SectionFileRequirements},
	})
)

// System-level kinds raised by the validator itself.
var (
	RuntimeExceptionInValidator = Define(Descriptor{
		Name:        "RuntimeExceptionInValidatorError",
		Severity:    SeverityError,
		Description: "A validator failed unexpectedly. Its findings may be incomplete; other validators are unaffected.",
		Fields: []FieldDoc{
			{Name: "validator", Description: "The name of the failing validator."},
			fieldException,
			fieldMessage,
		},
		Sections: []string{SectionSystemDiagnostics},
		System:   true,
	})

	ThreadExecution = Define(Descriptor{
		Name:        "ThreadExecutionError",
		Severity:    SeverityError,
		Description: "A unit of work in the worker pool failed outside of any validator.",
		Fields:      []FieldDoc{fieldException, fieldMessage},
		Sections:    []string{SectionSystemDiagnostics},
		System:      true,
	})

	IO = Define(Descriptor{
		Name:        "IOError",
		Severity:    SeverityError,
		Description: "The dataset could not be read.",
		Fields:      []FieldDoc{fieldException, fieldMessage},
		Sections:    []string{SectionSystemDiagnostics},
		System:      true,
	})
)
