package domain

// BootstrapData describes the administrator account seeded on first start.
type BootstrapData struct {
	AdminEmail    string
	AdminPassword string
	AdminName     string
	AdminSurname  string
	AdminAge      int
}

// Draft converts the bootstrap settings into a superuser draft.
func (b BootstrapData) Draft() UserDraft {
	return UserDraft{
		Name:        b.AdminName,
		Surname:     b.AdminSurname,
		Age:         b.AdminAge,
		Email:       b.AdminEmail,
		Password:    b.AdminPassword,
		IsSuperuser: true,
	}
}
