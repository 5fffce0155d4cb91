// ABOUTME: Account commands for the explorer server session
// ABOUTME: Handles sign in, sign up, sign out and showing the current user

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/harper/newsdesk/internal/session"
	"github.com/harper/newsdesk/internal/viewmodel"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to the explorer server",
	Long: `Sign in to the explorer server and store the session token in the config file.

The password is read from --password or the NEWSDESK_PASSWORD environment variable.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")
		password, err := passwordFlag(cmd)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		res := app.Session.Login(ctx, email, password)
		if err := res.Err(); err != nil {
			return fmt.Errorf("sign in failed: %w", err)
		}

		cfg.Token = res.Data()
		if err := cfg.Save(); err != nil {
			return fmt.Errorf("failed to save session: %w", err)
		}

		if name := app.Session.LoadName(ctx); name.OK() {
			fmt.Printf("%s Signed in as %s\n", green("✓"), bold(name.Data()))
		} else {
			fmt.Printf("%s Signed in\n", green("✓"))
		}
		return nil
	},
}

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create an explorer account",
	Long:  "Register a new account. Sign in afterwards with 'newsdesk login'.",
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		email, _ := cmd.Flags().GetString("email")
		password, err := passwordFlag(cmd)
		if err != nil {
			return err
		}

		if err := app.Session.SignUp(cmd.Context(), name, email, password); err != nil {
			return fmt.Errorf("sign up failed: %w", err)
		}
		fmt.Printf("%s Account created for %s\n", green("✓"), email)
		fmt.Println(faint("Sign in with: newsdesk login --email " + email))
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and forget the stored session",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !app.Session.IsLoggedIn() {
			fmt.Println("Not signed in")
			return nil
		}
		if err := app.Session.Logout(); err != nil {
			return fmt.Errorf("failed to forget session: %w", err)
		}
		fmt.Printf("%s Signed out\n", green("✓"))
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !app.Session.IsLoggedIn() {
			fmt.Println(viewmodel.MsgSignedOut)
			return nil
		}

		res := app.Session.LoadName(cmd.Context())
		if err := res.Err(); err != nil {
			if !app.Session.IsLoggedIn() {
				fmt.Println(faint("Session expired"))
				fmt.Println(viewmodel.MsgSignedOut)
				return nil
			}
			return fmt.Errorf("failed to load profile: %w", err)
		}

		fmt.Println(bold(res.Data()))
		if exp, ok := session.TokenExpiry(app.Session.Token()); ok {
			fmt.Printf("%s %s\n", faint("Session expires:"), exp.Local().Format("Mon, 02 Jan 2006 15:04 MST"))
		}
		return nil
	},
}

// passwordFlag returns --password, falling back to NEWSDESK_PASSWORD.
func passwordFlag(cmd *cobra.Command) (string, error) {
	password, _ := cmd.Flags().GetString("password")
	if password == "" {
		password = os.Getenv("NEWSDESK_PASSWORD")
	}
	if password == "" {
		return "", fmt.Errorf("password required: use --password or NEWSDESK_PASSWORD")
	}
	return password, nil
}

func init() {
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(signupCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)

	loginCmd.Flags().StringP("email", "e", "", "account email")
	loginCmd.Flags().String("password", "", "account password")
	_ = loginCmd.MarkFlagRequired("email")

	signupCmd.Flags().StringP("name", "n", "", "display name")
	signupCmd.Flags().StringP("email", "e", "", "account email")
	signupCmd.Flags().String("password", "", "account password")
	_ = signupCmd.MarkFlagRequired("name")
	_ = signupCmd.MarkFlagRequired("email")
}
