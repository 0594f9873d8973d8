package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/99minutos/ims-console/internal/core/domain"
	"github.com/99minutos/ims-console/internal/core/ports"
	"github.com/99minutos/ims-console/internal/core/service"
	"github.com/99minutos/ims-console/internal/output"
)

// profileRow is the identity printed by whoami.
type profileRow domain.Session

func (p profileRow) Table() output.Table {
	return output.Table{
		Headers: []string{"USERNAME", "EMAIL", "PROFILE IMAGE"},
		Rows:    [][]string{{p.Username, p.Email, p.ProfileImage}},
	}
}

// readSecret returns flag, or the first line of in when fromStdin is set.
func readSecret(flag string, fromStdin bool, in io.Reader) (string, error) {
	if !fromStdin {
		return flag, nil
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func newLoginCmd(rt *runtime) *cobra.Command {
	var username, password string
	var passwordStdin bool
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and keep the session for later commands",
		RunE: func(cmd *cobra.Command, _ []string) error {
			pw, err := readSecret(password, passwordStdin, cmd.InOrStdin())
			if err != nil {
				return err
			}
			v := rt.app.Views.Login
			if err := v.Mount(cmd.Context()); err != nil {
				return rt.check(v, err)
			}
			if err := v.Submit(cmd.Context(), username, pw); err != nil {
				return rt.check(v, err)
			}
			return rt.finish(v, nil)
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "password")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "read the password from stdin")
	return cmd
}

func newLogoutCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the stored session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			v := rt.app.Views.Profile
			if err := v.Logout(cmd.Context()); err != nil {
				return rt.check(v, err)
			}
			return rt.finish(v, nil)
		},
	}
}

func newSignUpCmd(rt *runtime) *cobra.Command {
	var form service.SignUpForm
	var passwordStdin bool
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Register a new account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if passwordStdin {
				pw, err := readSecret("", true, cmd.InOrStdin())
				if err != nil {
					return err
				}
				form.Password = pw
				if form.ConfirmPassword == "" {
					form.ConfirmPassword = pw
				}
			}
			v := rt.app.Views.SignUp
			if err := v.Mount(cmd.Context()); err != nil {
				return rt.check(v, err)
			}
			if err := v.Submit(cmd.Context(), form); err != nil {
				return rt.check(v, err)
			}
			return rt.finish(v, nil)
		},
	}
	cmd.Flags().StringVarP(&form.Username, "username", "u", "", "username")
	cmd.Flags().StringVarP(&form.Email, "email", "e", "", "email address")
	cmd.Flags().StringVarP(&form.Password, "password", "p", "", "password")
	cmd.Flags().StringVar(&form.ConfirmPassword, "confirm-password", "", "password again")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "read the password from stdin")
	return cmd
}

func newWhoAmICmd(rt *runtime) *cobra.Command {
	var refresh bool
	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in profile",
		RunE: func(cmd *cobra.Command, _ []string) error {
			v := rt.app.Views.Profile
			if err := v.Mount(cmd.Context()); err != nil {
				return rt.check(v, err)
			}
			if refresh {
				if err := v.Refresh(cmd.Context()); err != nil {
					return rt.check(v, err)
				}
			}
			sess, _ := v.Profile()
			return rt.finish(v, profileRow(sess))
		},
	}
	cmd.Flags().BoolVar(&refresh, "refresh", false, "reload the profile from the auth service")
	return cmd
}

func newProfileCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage the signed-in profile",
	}

	var form service.ProfileForm
	var image string
	edit := &cobra.Command{
		Use:   "edit",
		Short: "Change username, email, password or profile picture",
		RunE: func(cmd *cobra.Command, _ []string) error {
			v := rt.app.Views.EditProfile
			if err := v.Mount(cmd.Context()); err != nil {
				return rt.check(v, err)
			}
			current := v.Form()
			flags := cmd.Flags()
			if !flags.Changed("username") {
				form.Username = current.Username
			}
			if !flags.Changed("email") {
				form.Email = current.Email
			}
			if image != "" {
				f, err := os.Open(image)
				if err != nil {
					return fmt.Errorf("open profile image: %w", err)
				}
				defer f.Close()
				form.Image = &ports.ImageUpload{Filename: filepath.Base(image), Content: f}
			}
			if err := v.Submit(cmd.Context(), form); err != nil {
				return rt.check(v, err)
			}
			return rt.finish(v, nil)
		},
	}
	edit.Flags().StringVarP(&form.Username, "username", "u", "", "new username")
	edit.Flags().StringVarP(&form.Email, "email", "e", "", "new email address")
	edit.Flags().StringVar(&form.CurrentPassword, "current-password", "", "current password, required to change it")
	edit.Flags().StringVar(&form.NewPassword, "new-password", "", "new password")
	edit.Flags().StringVar(&form.ConfirmNewPassword, "confirm-new-password", "", "new password again")
	edit.Flags().StringVar(&image, "image", "", "path of a new profile picture")

	cmd.AddCommand(edit)
	return cmd
}
