package report

import "context"

// Repository は集計クエリを提供します。いずれも呼び出しごとに現在の保存状態から再計算します。
type Repository interface {
	// CountHiresByQuarter は区間内の採用を (部署名, 職種名, 四半期) で集計し、
	// 部署名・職種名・四半期の昇順で返します。
	CountHiresByQuarter(ctx context.Context, w Window) ([]QuarterCount, error)
	// CountHiresByDepartment は区間内の採用を部署ごとに集計し、採用数の降順で返します。
	// 採用が 1 件もない部署は含みません。
	CountHiresByDepartment(ctx context.Context, w Window) ([]DepartmentHires, error)
}
