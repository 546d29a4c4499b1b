// Command passvault-cli is a terminal client for the vault API. All
// encryption happens in this process: the master password is prompted
// without echo, stretched into the session key after login, and wiped when
// the command finishes.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/dimitrije/passvault/pkg/client"
	"github.com/dimitrije/passvault/pkg/vaultcrypto"
	"github.com/google/uuid"
	"golang.org/x/term"
)

func main() {
	serverURL := flag.String("server", envOr("PASSVAULT_SERVER", "http://localhost:8080"), "vault server base URL")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}

	c := client.New(*serverURL)
	ctx := context.Background()

	var err error
	switch args[0] {
	case "register":
		err = runRegister(ctx, c)
	case "list":
		err = withSession(ctx, c, runList)
	case "add":
		err = withSession(ctx, c, runAdd)
	case "show":
		err = withSession(ctx, c, idCommand(args[1:], runShow))
	case "rm":
		err = withSession(ctx, c, idCommand(args[1:], runRemove))
	case "update":
		err = withSession(ctx, c, idCommand(args[1:], runUpdate))
	default:
		usage()
		os.Exit(2)
	}

	if err != nil {
		log.Fatalf("%v", err)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `Usage: passvault-cli [-server URL] <command>

Commands:
  register        create an account
  list            list and decrypt all vault items
  add             add a new item
  show <id>       show one decrypted item
  update <id>     replace an item
  rm <id>         delete an item`)
}

// withSession prompts for credentials, logs in, runs fn, and wipes the
// derived key afterwards regardless of the outcome.
func withSession(ctx context.Context, c *client.Client, fn func(context.Context, *client.Client, *client.Session) error) error {
	email := prompt("Email: ")
	password, err := promptPassword("Master password: ")
	if err != nil {
		return err
	}

	session, err := c.Login(ctx, email, password)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	defer session.Close()

	return fn(ctx, c, session)
}

func idCommand(args []string, fn func(context.Context, *client.Client, *client.Session, uuid.UUID) error) func(context.Context, *client.Client, *client.Session) error {
	return func(ctx context.Context, c *client.Client, s *client.Session) error {
		if len(args) != 1 {
			return fmt.Errorf("expected exactly one item id")
		}
		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid item id: %s", args[0])
		}
		return fn(ctx, c, s, id)
	}
}

func runRegister(ctx context.Context, c *client.Client) error {
	username := prompt("Username: ")
	email := prompt("Email: ")
	password, err := promptPassword("Master password: ")
	if err != nil {
		return err
	}
	confirm, err := promptPassword("Confirm password: ")
	if err != nil {
		return err
	}
	if password != confirm {
		return fmt.Errorf("passwords do not match")
	}

	user, err := c.Signup(ctx, username, email, password)
	if err != nil {
		return fmt.Errorf("signup failed: %w", err)
	}

	fmt.Printf("Account created: %s (%s)\n", user.Username, user.Email)
	fmt.Println("Remember your master password. It cannot be recovered, and without it the vault cannot be decrypted.")
	return nil
}

func runList(ctx context.Context, c *client.Client, s *client.Session) error {
	items, err := c.List(ctx, s)
	if err != nil {
		return err
	}

	decrypted, err := c.DecryptAll(s, items)
	if err != nil {
		return err
	}

	if len(decrypted) == 0 {
		fmt.Println("Vault is empty.")
		return nil
	}

	for _, item := range decrypted {
		if item.DecryptionError {
			fmt.Printf("%s  %-24s  <decryption failed>\n", item.ID, item.Title)
			continue
		}
		fmt.Printf("%s  %-24s  %s\n", item.ID, item.Title, item.Secret.Username)
	}
	return nil
}

func runAdd(ctx context.Context, c *client.Client, s *client.Session) error {
	item, err := promptItem()
	if err != nil {
		return err
	}

	saved, err := c.Save(ctx, s, item)
	if err != nil {
		return err
	}

	fmt.Printf("Saved %q (%s)\n", saved.Title, saved.ID)
	return nil
}

func runShow(ctx context.Context, c *client.Client, s *client.Session, id uuid.UUID) error {
	item, err := c.Get(ctx, s, id)
	if err != nil {
		return err
	}

	fmt.Printf("Title:    %s\n", item.Title)
	fmt.Printf("Username: %s\n", item.Secret.Username)
	fmt.Printf("Password: %s\n", item.Secret.Password)
	fmt.Printf("URL:      %s\n", item.Secret.URL)
	fmt.Printf("Notes:    %s\n", item.Secret.Notes)
	return nil
}

func runUpdate(ctx context.Context, c *client.Client, s *client.Session, id uuid.UUID) error {
	item, err := promptItem()
	if err != nil {
		return err
	}

	updated, err := c.Update(ctx, s, id, item)
	if err != nil {
		return err
	}

	fmt.Printf("Updated %q (%s)\n", updated.Title, updated.ID)
	return nil
}

func runRemove(ctx context.Context, c *client.Client, s *client.Session, id uuid.UUID) error {
	if err := c.Delete(ctx, s, id); err != nil {
		return err
	}
	fmt.Println("Item deleted.")
	return nil
}

func promptItem() (client.Item, error) {
	title := prompt("Title: ")
	if title == "" {
		return client.Item{}, fmt.Errorf("title is required")
	}
	username := prompt("Username: ")
	password, err := promptPassword("Password: ")
	if err != nil {
		return client.Item{}, err
	}
	url := prompt("URL: ")
	notes := prompt("Notes: ")

	return client.Item{
		Title: title,
		Secret: vaultcrypto.SecretRecord{
			Username: username,
			Password: password,
			URL:      url,
			Notes:    notes,
		},
	}, nil
}

func prompt(label string) string {
	fmt.Print(label)
	reader := bufio.NewReader(os.Stdin)
	line, _ := reader.ReadString('\n')
	return strings.TrimSpace(line)
}

func promptPassword(label string) (string, error) {
	fmt.Print(label)
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(password), nil
}

func envOr(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
