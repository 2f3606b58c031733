package services

import (
	portsrepo "github.com/alfurqan-institute/cashfloat_backend/internal/core/ports/repositories"
	portssvc "github.com/alfurqan-institute/cashfloat_backend/internal/core/ports/services"
)

// NewServiceProvider wires every service facade with its repositories and
// the post-commit event publisher. publisher may be nil for deployments
// without a broker. forbidNegative blocks debits that would drive a
// holder's float below zero on transfer creation, expense approval and
// manual adjustments.
func NewServiceProvider(repos *portsrepo.RepositoryProvider, publisher portssvc.EventPublisher, forbidNegative bool) *portssvc.ServiceProvider {
	return &portssvc.ServiceProvider{
		HolderSvc: NewHolderService(repos.HolderRepo),
		LedgerSvc: NewLedgerService(repos.LedgerRepo, repos.HolderRepo, repos.AuditRepo, publisher, forbidNegative),
		TransferSvc: NewTransferService(repos.TransferRepo, repos.LedgerRepo, repos.HolderRepo,
			repos.AuditRepo, publisher, forbidNegative),
		IncomeSvc: NewIncomeService(repos.IncomeRepo, repos.LedgerRepo, repos.HolderRepo,
			repos.AuditRepo, publisher),
		ExpenseSvc: NewExpenseService(repos.ExpenseRepo, repos.LedgerRepo, repos.HolderRepo,
			repos.AuditRepo, publisher, forbidNegative),
		AuditSvc: NewAuditService(repos.AuditRepo),
	}
}
