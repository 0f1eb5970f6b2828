package hiring

import "context"

// Repository は永続化済みエンティティの参照を抽象化します。
type Repository interface {
	FindDepartmentByID(ctx context.Context, id int64) (*Department, error)
	FindJobByID(ctx context.Context, id int64) (*Job, error)
	FindEmployeeByID(ctx context.Context, id int64) (*Employee, error)
}
