package ingest

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/ogurasousui/hiring-insights/internal/core/hiring"
)

// TimestampPolicy は空でないが解析できない雇用日時の扱いを決めます。
// 空の雇用日時はどちらのポリシーでも常に除外されます。
type TimestampPolicy int

const (
	// SkipUnparseable は解析できない行を空の場合と同様に黙って除外します。
	SkipUnparseable TimestampPolicy = iota
	// AbortOnUnparseable は解析できない行で RowError を返しバッチ全体を中断します。
	AbortOnUnparseable
)

// ParseTimestampPolicy は設定値を TimestampPolicy に変換します。
func ParseTimestampPolicy(raw string) (TimestampPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "skip":
		return SkipUnparseable, nil
	case "abort":
		return AbortOnUnparseable, nil
	default:
		return SkipUnparseable, fmt.Errorf("ingest: unknown timestamp policy %q", raw)
	}
}

// Converter は Row を候補エンティティへ変換し、行単位の妥当性を判定します。
type Converter struct {
	departmentNames hiring.NamePolicy
	jobNames        hiring.NamePolicy
	timestamps      TimestampPolicy
}

// NewConverter は Converter を生成します。nil のポリシーは任意の名前を許可します。
func NewConverter(departmentNames, jobNames hiring.NamePolicy, timestamps TimestampPolicy) Converter {
	if departmentNames == nil {
		departmentNames = hiring.AnyName{}
	}
	if jobNames == nil {
		jobNames = hiring.AnyName{}
	}
	return Converter{departmentNames: departmentNames, jobNames: jobNames, timestamps: timestamps}
}

// Department は部署行を変換します。名前の許可判定以外の除外はありません。
func (c Converter) Department(row Row) (hiring.Department, error) {
	id, err := requiredID(row, FieldID)
	if err != nil {
		return hiring.Department{}, err
	}
	name := row.Values[FieldName]
	if !c.departmentNames.Allows(name) {
		return hiring.Department{}, rowError(row.Line, FieldName, fmt.Errorf("%w: %q", hiring.ErrInvalidName, name))
	}
	return hiring.Department{ID: id, Name: name}, nil
}

// Job は職種行を変換します。
func (c Converter) Job(row Row) (hiring.Job, error) {
	id, err := requiredID(row, FieldID)
	if err != nil {
		return hiring.Job{}, err
	}
	title := row.Values[FieldTitle]
	if !c.jobNames.Allows(title) {
		return hiring.Job{}, rowError(row.Line, FieldTitle, fmt.Errorf("%w: %q", hiring.ErrInvalidName, title))
	}
	return hiring.Job{ID: id, Title: title}, nil
}

// Employee は社員行を変換します。雇用日時が空、または解析できず SkipUnparseable の場合は
// ok=false を返し、その行はバッチに含めません。
func (c Converter) Employee(row Row) (emp hiring.Employee, ok bool, err error) {
	raw := strings.TrimSpace(row.Values[FieldHireTime])
	if raw == "" {
		return hiring.Employee{}, false, nil
	}

	hireTime, perr := ParseHireTime(raw)
	if perr != nil {
		if c.timestamps == AbortOnUnparseable {
			return hiring.Employee{}, false, rowError(row.Line, FieldHireTime, fmt.Errorf("%w: %v", ErrInvalidTimestamp, perr))
		}
		return hiring.Employee{}, false, nil
	}

	id, err := requiredID(row, FieldID)
	if err != nil {
		return hiring.Employee{}, false, err
	}
	departmentID, err := optionalID(row, FieldDepartmentID)
	if err != nil {
		return hiring.Employee{}, false, err
	}
	jobID, err := optionalID(row, FieldJobID)
	if err != nil {
		return hiring.Employee{}, false, err
	}

	var name *string
	if v := row.Values[FieldName]; v != "" {
		name = &v
	}

	return hiring.Employee{
		ID:           id,
		Name:         name,
		HireTime:     hireTime,
		DepartmentID: departmentID,
		JobID:        jobID,
	}, true, nil
}

// ParseHireTime は ISO-8601 や一般的な表記の日時を UTC として解析します。
// 31/12/2021 のような日・月の順が曖昧な表記は、月が範囲外なら日月を入れ替えて再解析します。
func ParseHireTime(raw string) (time.Time, error) {
	t, err := dateparse.ParseIn(raw, time.UTC, dateparse.RetryAmbiguousDateWithSwap(true))
	if err != nil {
		return time.Time{}, err
	}
	// 入れ替え後の再解析は time.Local で行われるため、壁時計の値を UTC として読み直します。
	if t.Location() == time.Local && time.Local != time.UTC {
		t = time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
	}
	return t.UTC(), nil
}

func requiredID(row Row, field string) (int64, error) {
	raw := strings.TrimSpace(row.Values[field])
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, rowError(row.Line, field, fmt.Errorf("%w: %q", hiring.ErrInvalidID, raw))
	}
	return id, nil
}

func optionalID(row Row, field string) (*int64, error) {
	if strings.TrimSpace(row.Values[field]) == "" {
		return nil, nil
	}
	id, err := requiredID(row, field)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
