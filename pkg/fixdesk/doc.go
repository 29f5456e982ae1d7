// Package fixdesk provides a Go client for the Fixdesk maintenance server.
//
// Every call is scoped to one site, chosen with WithSite. The actor given
// with WithActor is recorded in the site's audit log for each change.
//
//	client, err := fixdesk.NewClient(
//	    fixdesk.WithSite("plant-a"),
//	    fixdesk.WithActor("alice@desk"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	group, err := client.ApplySuggested(ctx, groupID)
//	if fixdesk.IsNotFound(err) {
//	    // the group was deleted
//	}
//
// Live updates are delivered over a WebSocket:
//
//	sub, err := client.Subscribe(ctx, token, fixdesk.RoleTechnician)
//	for evt := range sub.Events() {
//	    fmt.Println(evt.Type, evt.TaskGroupID)
//	}
package fixdesk
