package member

import "context"

// Repository はメンバー永続化の抽象です。
type Repository interface {
	Create(ctx context.Context, member *Member) (*Member, error)
	Update(ctx context.Context, member *Member) (*Member, error)
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*Member, error)
	FindByExternalID(ctx context.Context, source Source, externalID string) (*Member, error)
	List(ctx context.Context, filter ListMembersFilter) ([]*Member, string, error)
}

// ListMembersFilter は一覧取得用フィルタです。
type ListMembersFilter struct {
	Status *Status
	Source *Source
	Limit  int
	Offset int
}
