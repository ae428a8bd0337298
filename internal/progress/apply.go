package progress

import (
	"fmt"

	"github.com/MKhiriev/go-bank-connect/models"
)

// Apply returns the snapshot that results from ev. prev is never modified;
// fields ev does not concern are carried over. sync_failed, sync_completed
// and result leave the snapshot unchanged: the driving loop handles them.
func Apply(prev models.SyncProgress, ev models.SyncEvent) models.SyncProgress {
	next := prev
	next.AccountErrors = prev.AccountErrors

	switch e := ev.(type) {
	case models.SyncStarted:
		next = models.SyncProgress{
			Phase:         models.PhaseConnecting,
			TotalAccounts: e.TotalAccounts,
			LastMessage:   e.Message,
		}

	case models.AccountStarted:
		next.Phase = models.PhaseConnecting
		next.CurrentAccount = e.IBAN
		next.CurrentAccountName = e.AccountName
		next.AccountIndex = e.Index
		if e.Total > 0 {
			next.TotalAccounts = e.Total
		}
		next.TransactionsCurrent = 0
		next.TransactionsTotal = 0
		next.LastTransactionDescription = ""
		next.LastCounterAccountName = ""
		next.LastMessage = ""

	case models.AccountFetched:
		next.TransactionsTotal = e.NewTransactions
		next.TransactionsCurrent = 0
		if e.NewTransactions > 0 {
			next.Phase = models.PhaseFetching
		} else {
			next.Phase = models.PhaseComplete
		}
		next.LastMessage = e.Message

	case models.AccountClassifying:
		next.Phase = models.PhaseClassifying
		next.TransactionsCurrent = e.Current
		next.TransactionsTotal = e.Total

	case models.TransactionClassified:
		next.Phase = models.PhaseClassifying
		next.TransactionsCurrent = e.Current
		next.TransactionsTotal = e.Total
		next.LastTransactionDescription = e.Description
		next.LastCounterAccountName = e.CounterAccountName

	case models.AccountCompleted:
		next.Phase = models.PhaseComplete
		if e.Message != "" {
			next.LastMessage = e.Message
		}

	case models.AccountFailed:
		msg := fmt.Sprintf("Error syncing %s: %s", e.IBAN, e.Error)
		next.LastMessage = msg
		// copy so that prev keeps its own backing array
		next.AccountErrors = append(append([]string(nil), prev.AccountErrors...), msg)
	}

	return next
}

// Fold applies events in order starting from the zero snapshot.
func Fold(events []models.SyncEvent) models.SyncProgress {
	var p models.SyncProgress
	for _, ev := range events {
		p = Apply(p, ev)
	}
	return p
}
