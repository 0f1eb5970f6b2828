package report

import "time"

// QuarterCount は (部署, 職種, 四半期) ごとの採用数です。
type QuarterCount struct {
	DepartmentID int64
	JobID        int64
	Department   string
	Job          string
	Quarter      int
	Hired        int
}

// QuarterlyHires は部署・職種の組み合わせごとの四半期別採用数です。
type QuarterlyHires struct {
	Department string `json:"department"`
	Job        string `json:"job"`
	Q1         int    `json:"q1"`
	Q2         int    `json:"q2"`
	Q3         int    `json:"q3"`
	Q4         int    `json:"q4"`
}

// DepartmentHires は部署ごとの採用数です。
type DepartmentHires struct {
	ID         int64  `json:"department_id"`
	Department string `json:"department"`
	Hired      int    `json:"hired"`
}

// Window は集計対象の半開区間 [From, To) です。
type Window struct {
	From time.Time
	To   time.Time
}

// YearWindow は year の 1 月 1 日 (UTC) から翌年 1 月 1 日までの区間を返します。
func YearWindow(year int) Window {
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	return Window{From: from, To: from.AddDate(1, 0, 0)}
}
