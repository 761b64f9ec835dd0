package userctl

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/aussiebroadwan/userdir/pkg/usersdk"
)

func renderUsers(w io.Writer, page usersdk.UsersPublic) error {
	fmt.Fprintf(w, "Total users: %d\n", page.Count)
	if len(page.Data) == 0 {
		fmt.Fprintln(w, "No users found.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tSURNAME\tAGE\tEMAIL\tSUPERUSER")
	for _, u := range page.Data {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%s\n",
			u.ID, u.Name, u.Surname, u.Age, u.Email, strconv.FormatBool(u.IsSuperuser))
	}
	return tw.Flush()
}

func renderUser(w io.Writer, u usersdk.UserPublic) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "id:\t%s\n", u.ID)
	fmt.Fprintf(tw, "name:\t%s\n", u.Name)
	fmt.Fprintf(tw, "surname:\t%s\n", u.Surname)
	fmt.Fprintf(tw, "age:\t%d\n", u.Age)
	fmt.Fprintf(tw, "email:\t%s\n", u.Email)
	fmt.Fprintf(tw, "is_superuser:\t%t\n", u.IsSuperuser)
	return tw.Flush()
}

// renderError prints validation failures one field per line and any other
// API error as its detail message.
func renderError(w io.Writer, err error) {
	var apiErr *usersdk.APIError
	if !errors.As(err, &apiErr) {
		fmt.Fprintf(w, "Error: %v\n", err)
		return
	}

	if len(apiErr.Fields) > 0 {
		fmt.Fprintln(w, "Validation errors:")
		for _, line := range apiErr.FieldMessages() {
			fmt.Fprintln(w, line)
		}
		return
	}

	detail := apiErr.Detail
	if detail == "" {
		detail = "Unknown error"
	}
	fmt.Fprintf(w, "Error: %s\n", detail)
}
