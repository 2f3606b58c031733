package services

// ServiceProvider holds all service facades needed by the handlers.
type ServiceProvider struct {
	HolderSvc   HolderSvcFacade
	LedgerSvc   LedgerSvcFacade
	TransferSvc TransferSvcFacade
	IncomeSvc   IncomeSvcFacade
	ExpenseSvc  ExpenseSvcFacade
	AuditSvc    AuditSvcFacade
}
