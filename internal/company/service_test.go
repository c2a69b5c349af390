// Copyright (c) 2026 Saber. All rights reserved.
// Author: platform@saber.app

package company

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saberhq/saber/internal/platform/apperr"
)

// stubCompanyRepository is an in-memory CompanyRepository.
type stubCompanyRepository struct {
	companies map[string]*Company
	members   map[string][]string // companyID -> userIDs
}

func newStubCompanyRepository() *stubCompanyRepository {
	return &stubCompanyRepository{
		companies: map[string]*Company{},
		members:   map[string][]string{},
	}
}

func (s *stubCompanyRepository) Create(_ context.Context, company *Company) error {
	s.companies[company.ID] = company
	return nil
}

func (s *stubCompanyRepository) FindByID(_ context.Context, id string) (*Company, error) {
	company, ok := s.companies[id]
	if !ok {
		return nil, apperr.NotFound("Company")
	}
	return company, nil
}

func (s *stubCompanyRepository) FindByMember(_ context.Context, userID string) (*Company, error) {
	for companyID, userIDs := range s.members {
		for _, id := range userIDs {
			if id == userID {
				return s.companies[companyID], nil
			}
		}
	}
	return nil, apperr.NotFound("Company")
}

func (s *stubCompanyRepository) AddMember(_ context.Context, companyID, userID string) error {
	s.members[companyID] = append(s.members[companyID], userID)
	return nil
}

// stubLinker records SetCompany calls.
type stubLinker struct {
	linked map[string]string // userID -> companyID
}

func (s *stubLinker) SetCompany(_ context.Context, userID, companyID string) error {
	s.linked[userID] = companyID
	return nil
}

/*
TestService_CreateLinksCreator verifies the onboarding completion chain: the
company is persisted with a derived slug, the creator becomes owner and
member, and the account gains its company link.
*/
func TestService_CreateLinksCreator(t *testing.T) {
	repo := newStubCompanyRepository()
	linker := &stubLinker{linked: map[string]string{}}
	service := NewService(repo, linker)

	company, err := service.Create(context.Background(), "user-1", CreateInput{
		Name:    "Saber Labs",
		Website: "https://saberlabs.example",
	})

	require.NoError(t, err)
	assert.Equal(t, "saber-labs", company.Slug)
	assert.Equal(t, "user-1", company.OwnerID)
	assert.Equal(t, company.ID, linker.linked["user-1"])
	assert.Contains(t, repo.members[company.ID], "user-1")

	mine, err := service.Mine(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, company.ID, mine.ID)
}

/*
TestService_CreateValidation covers the two rejection paths: a too-short name
and a malformed website URL.
*/
func TestService_CreateValidation(t *testing.T) {
	service := NewService(newStubCompanyRepository(), &stubLinker{linked: map[string]string{}})

	_, err := service.Create(context.Background(), "user-1", CreateInput{Name: "X"})
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)

	_, err = service.Create(context.Background(), "user-1", CreateInput{
		Name:    "Saber Labs",
		Website: "not a url",
	})
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
}
