package enums

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleClient Role = "client"
)
