package rules

import (
	"github.com/leapstack-labs/feedlint/pkg/fieldtype"
	"github.com/leapstack-labs/feedlint/pkg/notice"
	"github.com/leapstack-labs/feedlint/pkg/table"
	"github.com/leapstack-labs/feedlint/pkg/validator"
)

func init() {
	validator.RegisterDef(validator.RuleDef{
		Name:        "foreign_key",
		Description: "Every foreign key value must match a primary key in the referenced file",
		Notices:     []*notice.Kind{notice.ForeignKeyViolation},
		Check:       checkForeignKeys,
	})
}

// checkForeignKeys walks every declared foreign key of every loaded file.
// Absent values are a required-field concern and are skipped.
func checkForeignKeys(feed *table.Feed, sink notice.Sink) {
	for _, name := range feed.Present() {
		child := feed.Table(name)
		for _, fk := range child.Schema().ForeignKeys() {
			parent := feed.Table(fk.ForeignKey.Table)
			for _, e := range child.All() {
				v, ok := e.Get(fk.Name)
				if !ok {
					continue
				}
				if _, found := parent.ByPrimaryKey(v); found {
					continue
				}
				sink.Add(notice.ForeignKeyViolation.New(
					notice.F("childFilename", name),
					notice.F("childFieldName", fk.Name),
					notice.F("parentFilename", fk.ForeignKey.Table),
					notice.F("parentFieldName", fk.ForeignKey.Field),
					notice.F("fieldValue", fieldtype.Format(v)),
					notice.F("csvRowNumber", e.Row())))
			}
		}
	}
}
