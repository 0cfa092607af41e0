// cliniciactl es el CLI de operador: habla con la consola /api/admin
// del server usando un ID token de SUPER_ADMIN.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

type client struct {
	BaseURL   string
	Token     string
	OutFormat string // "json" | "text"
	HTTP      *http.Client
}

func (c *client) do(method, path string, body []byte) (int, []byte, error) {
	url := strings.TrimRight(c.BaseURL, "/") + path
	req, err := http.NewRequest(method, url, bytes.NewReader(body))
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.Token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, b, nil
}

func (c *client) print(status int, body []byte) {
	if c.OutFormat == "json" {
		var v any
		if json.Unmarshal(body, &v) == nil {
			p, _ := json.MarshalIndent(v, "", "  ")
			fmt.Println(string(p))
			return
		}
	}
	if len(body) > 0 {
		fmt.Println(string(body))
	} else {
		fmt.Printf("status=%d\n", status)
	}
}

func main() {
	var (
		baseURL = envOr("CLINICIA_URL", "http://localhost:8080")
		token   = envOr("CLINICIA_TOKEN", "")
		out     = envOr("CLINICIA_OUT", "text")
		timeout = 30 * time.Second
	)

	root := &cobra.Command{
		Use:   "cliniciactl",
		Short: "CLI de operador para Clinicia (consola /api/admin)",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if token == "" {
				return fmt.Errorf("falta el token (flag --token o env CLINICIA_TOKEN)")
			}
			return nil
		},
	}

	root.PersistentFlags().StringVar(&baseURL, "url", baseURL, "URL base del server (env CLINICIA_URL)")
	root.PersistentFlags().StringVar(&token, "token", token, "ID token de SUPER_ADMIN (env CLINICIA_TOKEN)")
	root.PersistentFlags().StringVar(&out, "out", out, "Formato de salida: json|text")

	cl := &client{BaseURL: baseURL, Token: token, OutFormat: out, HTTP: &http.Client{Timeout: timeout}}

	// ping: usa /api/admin/stats
	pingCmd := &cobra.Command{
		Use:   "ping",
		Short: "Verifica conectividad y credencial de operador",
		RunE: func(cmd *cobra.Command, args []string) error {
			status, body, err := cl.do("GET", "/api/admin/stats", nil)
			if err != nil {
				return err
			}
			if status/100 != 2 {
				return fmt.Errorf("ping falló: status=%d body=%s", status, string(body))
			}
			if cl.OutFormat == "text" {
				fmt.Println("ok")
				return nil
			}
			cl.print(status, []byte(`{"ok":true}`))
			return nil
		},
	}

	// grupo clinics
	clinicsCmd := &cobra.Command{Use: "clinics", Short: "Operaciones sobre clínicas"}

	listClinicsCmd := &cobra.Command{
		Use:   "list",
		Short: "Listar clínicas de la plataforma",
		RunE: func(cmd *cobra.Command, args []string) error {
			status, body, err := cl.do("GET", "/api/admin/clinics", nil)
			if err != nil {
				return err
			}
			if status/100 != 2 {
				return fmt.Errorf("list falló: status=%d body=%s", status, string(body))
			}
			cl.print(status, body)
			return nil
		},
	}

	var createName, createSlug, createPhone, createAddress string
	createClinicCmd := &cobra.Command{
		Use:   "create",
		Short: "Crear una clínica",
		RunE: func(cmd *cobra.Command, args []string) error {
			if createName == "" {
				return fmt.Errorf("--name es requerido")
			}
			payload := map[string]any{
				"name":    createName,
				"slug":    createSlug,
				"phone":   createPhone,
				"address": createAddress,
			}
			b, _ := json.Marshal(payload)
			status, body, err := cl.do("POST", "/api/admin/clinics", b)
			if err != nil {
				return err
			}
			if status/100 != 2 {
				return fmt.Errorf("create falló: status=%d body=%s", status, string(body))
			}
			cl.print(status, body)
			return nil
		},
	}
	createClinicCmd.Flags().StringVar(&createName, "name", "", "Nombre de la clínica")
	createClinicCmd.Flags().StringVar(&createSlug, "slug", "", "Slug (opcional, derivado del nombre)")
	createClinicCmd.Flags().StringVar(&createPhone, "phone", "", "Teléfono (opcional)")
	createClinicCmd.Flags().StringVar(&createAddress, "address", "", "Dirección (opcional)")

	// users list
	var usersClinicID string
	usersCmd := &cobra.Command{
		Use:   "users",
		Short: "Listar usuarios staff (cross-tenant sin --clinic)",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/admin/users"
			if usersClinicID != "" {
				path += "?clinic_id=" + usersClinicID
			}
			status, body, err := cl.do("GET", path, nil)
			if err != nil {
				return err
			}
			if status/100 != 2 {
				return fmt.Errorf("users falló: status=%d body=%s", status, string(body))
			}
			cl.print(status, body)
			return nil
		},
	}
	usersCmd.Flags().StringVar(&usersClinicID, "clinic", "", "Filtrar por clínica (opcional)")

	// stats
	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Agregados de la plataforma",
		RunE: func(cmd *cobra.Command, args []string) error {
			status, body, err := cl.do("GET", "/api/admin/stats", nil)
			if err != nil {
				return err
			}
			if status/100 != 2 {
				return fmt.Errorf("stats falló: status=%d body=%s", status, string(body))
			}
			cl.print(status, body)
			return nil
		},
	}

	clinicsCmd.AddCommand(listClinicsCmd)
	clinicsCmd.AddCommand(createClinicCmd)
	root.AddCommand(pingCmd)
	root.AddCommand(clinicsCmd)
	root.AddCommand(usersCmd)
	root.AddCommand(statsCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
