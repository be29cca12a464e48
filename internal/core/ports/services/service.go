package services

// ServiceProvider holds all service facades needed by the HTTP layer.
type ServiceProvider struct {
	UserSvc        UserSvcFacade
	AuthSvc        AuthSvcFacade
	CategorySvc    CategorySvcFacade
	TransactionSvc TransactionSvcFacade
	BalanceSvc     BalanceSvcFacade
	CurrencySvc    CurrencySvcFacade
}
