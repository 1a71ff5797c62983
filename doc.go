// Package sympa provides a Go client for the SOAP interface of the Sympa
// mailing list manager.
//
// Basic usage:
//
//	client, err := sympa.New("https://lists.example.org/sympasoap")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	if err := client.Login(ctx, "alice@example.org", password); err != nil {
//	    log.Fatal(err)
//	}
//
//	lists, err := client.Lists(ctx, "computers", "software")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, l := range lists {
//	    fmt.Println(l.ListAddress, l.Subject)
//	}
//
// Topics, subtopics, roles and list templates are checked against the
// values a default Sympa installation knows before anything is sent; such
// errors match ErrInvalidArgument. Faults raised by the service are returned
// as *Fault.
package sympa
