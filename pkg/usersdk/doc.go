// Package usersdk is the Go client for the user directory service.
//
// It carries the wire types shared with the server (request and response
// bodies, validation rules) and a small HTTP client built on resty.
//
//	client := usersdk.NewClient(os.Getenv("BACKEND_URL"))
//	created, err := client.CreateUser(ctx, usersdk.UserCreateRequest{
//		Name: "Ann", Surname: "Lee", Age: usersdk.Int(30),
//		Email: "ann@x.com", Password: "secret",
//	})
//	if usersdk.IsConflict(err) {
//		// email already registered
//	}
package usersdk
