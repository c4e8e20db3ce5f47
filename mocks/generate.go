package mocks

//go:generate mockgen -destination=./mock_exchange.go -package=mocks github.com/rxtech-lab/argo-moonshot/internal/exchange Exchange
//go:generate mockgen -destination=./mock_sentiment.go -package=mocks github.com/rxtech-lab/argo-moonshot/internal/sentiment Source
//go:generate mockgen -destination=./mock_journal.go -package=mocks github.com/rxtech-lab/argo-moonshot/internal/journal Journal
