package hiring

import "time"

// Department は部署エンティティです。作成後は変更されません。
type Department struct {
	ID   int64
	Name string
}

// Job は職種エンティティです。作成後は変更されません。
type Job struct {
	ID    int64
	Title string
}

// Employee は社員エンティティです。
// DepartmentID と JobID は未設定 (nil) を許容します。
type Employee struct {
	ID           int64
	Name         *string
	HireTime     time.Time
	DepartmentID *int64
	JobID        *int64
}
