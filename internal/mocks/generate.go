package mocks

//go:generate mockgen -source=../repository/db/querier.go -destination=mock_querier.go -package=mocks
//go:generate mockgen -source=../../pkg/nonce/store.go -destination=mock_nonce.go -package=mocks
//go:generate mockgen -source=../authorization/submitter.go -destination=mock_submitter.go -package=mocks
