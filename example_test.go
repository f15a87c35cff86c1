package restvalidation_test

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	v "github.com/Gobd/restvalidation"
	"github.com/Gobd/restvalidation/apierror"
	"github.com/Gobd/restvalidation/pathconv"
)

type User struct {
	FirstName string `json:"firstName"`
	Email     string `json:"email"`
	Age       int    `json:"age"`
}

func (u *User) Rules() []*v.FieldRules {
	return []*v.FieldRules{
		v.Field(&u.FirstName, v.Required, v.Length(1, 100)),
		v.Field(&u.Email, v.Required, v.Email),
		v.Field(&u.Age, v.Min(0), v.Max(150)),
	}
}

func ExampleValidate() {
	user := &User{FirstName: "Alice", Email: "alice@example.com", Age: 30}
	if err := v.Validate(user); err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println("valid")
	// Output: valid
}

func ExampleValidate_error() {
	user := &User{Age: -1}
	err := v.Validate(user)
	fmt.Println(err)
	// Output: invalid_parameters: Request validation failed: firstName: cannot be blank; email: cannot be blank; age: must be no less than 0
}

func ExampleValidateEntity() {
	err := v.ValidateEntity(context.Background(), v.NewRuleValidator(), &User{Email: "alice"}, pathconv.CamelToSnake{})

	body, _ := json.Marshal(apierror.Normalize(err))
	fmt.Println(apierror.StatusCode(err))
	fmt.Println(string(body))
	// Output:
	// 400
	// {"error":"invalid_parameters","error_description":"Request validation failed","error_properties":{"first_name":["cannot be blank"],"email":["must be a valid email address"]},"errors":[{"field":"first_name","message":"cannot be blank"},{"field":"email","message":"must be a valid email address"}]}
}

func ExampleListener_OnController() {
	api := v.NewAPI("wallet").
		SetPathConverter(pathconv.CamelToSnake{}).
		AddRequestMapper("user", "users.create", "user")
	manager := v.NewManager(v.NewStaticResolver(api), v.WithMappers(v.NewStructMapper[User]("user")))
	listener := v.NewListener(manager)

	r := &v.Request{
		Controller:  "users.create",
		ContentType: "application/json",
		Attributes:  map[string]any{v.APIKeyAttribute: "wallet"},
		Body:        []byte(`{"firstName":"Alice","email":"alice@example.com","age":30}`),
	}
	if err := listener.OnController(context.Background(), r); err != nil {
		fmt.Println(err)
		return
	}
	user, _ := r.Attribute("user")
	fmt.Println(user.(*User).FirstName)
	// Output: Alice
}

type Event struct {
	StartDate string `json:"start_date"`
}

func (e *Event) Rules() []*v.FieldRules {
	return []*v.FieldRules{
		v.Field(&e.StartDate, v.Required, v.Date(time.DateOnly).
			Min(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)).
			Max(time.Date(2030, 12, 31, 0, 0, 0, 0, time.UTC))),
	}
}

func ExampleDate() {
	fmt.Println(v.Validate(&Event{StartDate: "2025-06-15"}))
	fmt.Println(v.Validate(&Event{StartDate: "2019-06-15"}))
	// Output:
	// <nil>
	// invalid_parameters: Request validation failed: start_date: the date is out of range
}

type Payment struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
	IsDraft  bool    `json:"-"`
}

func (p *Payment) Rules() []*v.FieldRules {
	return []*v.FieldRules{
		v.Field(&p.Amount, v.When(!p.IsDraft, "not draft", v.Required, v.Min(0.01)).
			Else(v.Min(0.0))),
		v.Field(&p.Currency, v.Required, v.In("USD", "EUR", "GBP")),
	}
}

func ExampleWhen() {
	fmt.Println(v.Validate(&Payment{IsDraft: true, Currency: "USD"}))
	fmt.Println(v.Validate(&Payment{Currency: "USD"}))
	// Output:
	// <nil>
	// invalid_parameters: Request validation failed: amount: cannot be blank
}
