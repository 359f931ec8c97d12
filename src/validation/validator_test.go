package validation

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type fakeLookup struct {
	emails map[string]bool
	phones map[string]bool
	titles map[string]uint
	err    error
}

func (f *fakeLookup) EmailTaken(_ context.Context, email string) (bool, error) {
	return f.emails[email], f.err
}

func (f *fakeLookup) PhoneTaken(_ context.Context, phone string) (bool, error) {
	return f.phones[phone], f.err
}

func (f *fakeLookup) TitleTaken(_ context.Context, title string, excludeID uint) (bool, error) {
	id, ok := f.titles[strings.ToLower(title)]
	return ok && id != excludeID, f.err
}

type ValidatorSuite struct {
	suite.Suite
	lookup *fakeLookup
	v      *Validator
}

func (s *ValidatorSuite) SetupTest() {
	s.lookup = &fakeLookup{
		emails: map[string]bool{"taken@example.com": true},
		phones: map[string]bool{"0400000000": true},
		titles: map[string]uint{"mid-autumn festival": 7},
	}
	s.v = New(s.lookup)
}

func validRegistration() Registration {
	return Registration{
		FirstName: "Riley",
		Surname:   "Nguyen",
		Email:     "riley@example.com.au",
		Phone:     "0412 345 678",
		Address:   "12 King St",
		Password:  "Sunshine#42",
		Confirm:   "Sunshine#42",
	}
}

func validEvent() EventSubmission {
	start := time.Date(2030, 9, 20, 17, 0, 0, 0, time.UTC)
	return EventSubmission{
		Title:        "Night Noodle Markets",
		Description:  "Hawker stalls by the river",
		StartTime:    start,
		EndTime:      start.Add(3 * time.Hour),
		Venue:        "South Bank Parklands, South Brisbane",
		VendorNames:  "Alice, Bob Jones & Chen Family",
		TotalTickets: 200,
		TicketPrice:  decimal.RequireFromString("12.50"),
		Category:     "Food",
		ImageName:    "noodles.JPG",
	}
}

func (s *ValidatorSuite) TestValidRegistrationPasses() {
	r := NormalizeRegistration(validRegistration())
	errs, err := s.v.ValidateRegistration(context.Background(), r)
	s.Require().NoError(err)
	s.Empty(errs)
	s.Equal("0412345678", r.Phone)
}

func (s *ValidatorSuite) TestRegistrationReportsEveryFailingField() {
	r := validRegistration()
	r.FirstName = "R1ley"
	r.Surname = ""
	r.Email = "Taken@Example.com"
	r.Phone = "0400-000-000"
	r.Address = "King St"
	r.Password = "password"
	r.Confirm = "password"

	errs, err := s.v.ValidateRegistration(context.Background(), NormalizeRegistration(r))
	s.Require().NoError(err)
	s.Equal(MsgLettersOnly, errs["first_name"])
	s.Equal(MsgRequired, errs["surname"])
	s.Equal(MsgEmailTaken, errs["email"])
	s.Equal(MsgPhoneTaken, errs["phone"])
	s.Equal(MsgAddressLength, errs["address"])
	s.Equal(MsgPasswordClasses, errs["password"])
	s.Len(errs, 6)
}

func (s *ValidatorSuite) TestRegistrationEmailAndPasswordMessages() {
	r := validRegistration()
	r.Email = "riley@example.xyz"
	r.Password = "Riley#2024"
	r.Confirm = "Riley#2024"

	errs, err := s.v.ValidateRegistration(context.Background(), NormalizeRegistration(r))
	s.Require().NoError(err)
	s.Equal(MsgEmailDomain, errs["email"])
	s.Equal(MsgPasswordPersonal, errs["password"])
}

func (s *ValidatorSuite) TestRegistrationPasswordsMustMatch() {
	r := validRegistration()
	r.Confirm = "Sunshine#43"
	errs, err := s.v.ValidateRegistration(context.Background(), NormalizeRegistration(r))
	s.Require().NoError(err)
	s.Equal("Passwords should match", errs["password"])
}

func (s *ValidatorSuite) TestValidEventPasses() {
	errs, err := s.v.ValidateEventSubmission(context.Background(), validEvent(), 0)
	s.Require().NoError(err)
	s.Empty(errs)
}

func (s *ValidatorSuite) TestDuplicateTitleRejectedOnCreateAcceptedForSelf() {
	e := validEvent()
	e.Title = "MID-AUTUMN Festival"

	errs, err := s.v.ValidateEventSubmission(context.Background(), e, 0)
	s.Require().NoError(err)
	s.Equal(MsgTitleTaken, errs["title"])

	e.Title = "Mid-Autumn Festival"
	e.ImageName = ""
	errs, err = s.v.ValidateEventSubmission(context.Background(), e, 7)
	s.Require().NoError(err)
	s.Empty(errs)
}

func (s *ValidatorSuite) TestEventFieldMessages() {
	e := validEvent()
	e.EndTime = e.StartTime.Add(30 * time.Minute)
	e.Venue = "12345, Sydney"
	e.VendorNames = "Al, Bob Jones"
	e.TotalTickets = 0
	e.TicketPrice = decimal.NewFromInt(-1)
	e.Category = "Dessert"
	e.ImageName = "menu.pdf"

	errs, err := s.v.ValidateEventSubmission(context.Background(), NormalizeEventSubmission(e), 0)
	s.Require().NoError(err)
	s.Equal(MsgMinDuration, errs["end_time"])
	s.Equal(MsgVenueLetters, errs["venue"])
	s.Equal(MsgVendorLength, errs["vendor_names"])
	s.Equal("Number must be at least 1.", errs["total_tickets"])
	s.Equal("Number must be at least 0.", errs["ticket_price"])
	s.Equal("Not a valid choice.", errs["category"])
	s.Equal(MsgImageType, errs["image"])
}

func (s *ValidatorSuite) TestImageRequiredOnCreateOnly() {
	e := validEvent()
	e.ImageName = ""
	errs, err := s.v.ValidateEventSubmission(context.Background(), e, 0)
	s.Require().NoError(err)
	s.Equal(MsgImageRequired, errs["image"])
}

func (s *ValidatorSuite) TestEndBeforeStart() {
	e := validEvent()
	e.EndTime = e.StartTime.Add(-time.Hour)
	errs, err := s.v.ValidateEventSubmission(context.Background(), e, 0)
	s.Require().NoError(err)
	s.Equal(MsgEndAfterStart, errs["end_time"])
}

func (s *ValidatorSuite) TestLookupFailureIsReturned() {
	s.lookup.err = errors.New("connection refused")
	_, err := s.v.ValidateRegistration(context.Background(), NormalizeRegistration(validRegistration()))
	s.Error(err)
	s.Contains(err.Error(), "email lookup")
}

func TestValidatorSuite(t *testing.T) {
	suite.Run(t, new(ValidatorSuite))
}

func TestFieldErrorsError(t *testing.T) {
	fe := FieldErrors{"venue": "bad venue", "title": "bad title"}
	require.Error(t, fe)
	assert.Equal(t, "validation failed: title: bad title; venue: bad venue", fe.Error())
}
