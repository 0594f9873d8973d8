package service

import "github.com/99minutos/ims-console/internal/core/ports"

// Gateways bundles the backend adapters the views depend on.
type Gateways struct {
	Auth      ports.AuthGateway
	Products  ports.ProductGateway
	Orders    ports.OrderGateway
	Suppliers ports.SupplierGateway
	Reports   ports.ReportGateway
}

// Views holds one controller per screen, all sharing the same session.
type Views struct {
	Login       *LoginView
	SignUp      *SignUpView
	Profile     *ProfileView
	EditProfile *EditProfileView
	Products    *ProductView
	Orders      *OrderView
	Suppliers   *SupplierView
	Reports     *ReportView
}

func NewViews(gw Gateways, deps ViewDeps) *Views {
	return &Views{
		Login:       NewLoginView(gw.Auth, deps),
		SignUp:      NewSignUpView(gw.Auth, deps),
		Profile:     NewProfileView(gw.Auth, deps),
		EditProfile: NewEditProfileView(gw.Auth, deps),
		Products:    NewProductView(gw.Products, deps),
		Orders:      NewOrderView(gw.Orders, deps),
		Suppliers:   NewSupplierView(gw.Suppliers, deps),
		Reports:     NewReportView(gw.Reports, deps),
	}
}

// Close unmounts every view.
func (v *Views) Close() {
	v.Login.Close()
	v.SignUp.Close()
	v.Profile.Close()
	v.EditProfile.Close()
	v.Products.Close()
	v.Orders.Close()
	v.Suppliers.Close()
	v.Reports.Close()
}
