package ingest

import (
	"fmt"
	"strings"
)

// Kind は取り込み対象のエンティティ種別です。
type Kind string

const (
	KindEmployee   Kind = "employee"
	KindJob        Kind = "job"
	KindDepartment Kind = "department"
)

// 各種別の CSV 列名。ファイルのヘッダー行は読まず、この順序で解釈します。
const (
	FieldID           = "id"
	FieldName         = "name"
	FieldTitle        = "title"
	FieldHireTime     = "hire_time"
	FieldDepartmentID = "department_id"
	FieldJobID        = "job_id"
)

var (
	employeeFields   = []string{FieldID, FieldName, FieldHireTime, FieldDepartmentID, FieldJobID}
	jobFields        = []string{FieldID, FieldTitle}
	departmentFields = []string{FieldID, FieldName}
)

// Kinds は受け付ける種別の一覧です。
var Kinds = []Kind{KindEmployee, KindJob, KindDepartment}

// ParseKind は文字列を Kind に変換します。未知の値は ErrUnsupportedKind を返します。
func ParseKind(raw string) (Kind, error) {
	switch k := Kind(strings.TrimSpace(raw)); k {
	case KindEmployee, KindJob, KindDepartment:
		return k, nil
	default:
		return "", fmt.Errorf("%w: %q (must be one of %s)", ErrUnsupportedKind, raw, kindList())
	}
}

// Fields は種別ごとの固定列順を返します。
func (k Kind) Fields() []string {
	switch k {
	case KindEmployee:
		return employeeFields
	case KindJob:
		return jobFields
	case KindDepartment:
		return departmentFields
	default:
		return nil
	}
}

// Plural はレスポンスのキーとして使う複数形を返します。
func (k Kind) Plural() string {
	return string(k) + "s"
}

func (k Kind) String() string {
	return string(k)
}

func kindList() string {
	names := make([]string, 0, len(Kinds))
	for _, k := range Kinds {
		names = append(names, "'"+string(k)+"'")
	}
	return "[" + strings.Join(names, ", ") + "]"
}
