// Package mocks provides shared test doubles for the service and API
// tests.
//
// Two styles live here. Function-field mocks (MockJWTService,
// MockPasswordVerifier) return canned values unless a Fn field overrides
// them. Testify mocks (TestifyMockUserStore, MockRecordStore,
// MockStatusStore) record expectations with mock.Mock:
//
//	sessions := &mocks.MockRecordStore[domain.TrainingSession]{}
//	sessions.On("CountByOwner", mock.Anything, ownerID, "").Return(10, nil)
//
// MockMailer records every password reset it is asked to send.
package mocks
