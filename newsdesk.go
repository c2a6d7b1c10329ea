package main

import (
	"bytes"
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/alexedwards/scs/v2/memstore"
	"github.com/joho/godotenv"
	_ "github.com/mattn/go-sqlite3"
	"github.com/newsdesk/newsdesk/api"
	"github.com/newsdesk/newsdesk/auth"
	"github.com/newsdesk/newsdesk/backend"
	"github.com/newsdesk/newsdesk/core"
	"github.com/newsdesk/newsdesk/platform"
	"github.com/newsdesk/newsdesk/sessions/mysql"
	"github.com/newsdesk/newsdesk/sessions/sqlite3"
	"github.com/newsdesk/newsdesk/util"
	"github.com/xo/dburl"
	"golang.org/x/crypto/ssh/terminal"
)

type prefixedResponseWriter struct {
	http.ResponseWriter
	prefix string // without trailing slash
}

// shadows the original WriteHeader func
func (w prefixedResponseWriter) WriteHeader(statusCode int) {
	// prepend prefix to Location header, so redirects work
	if w.prefix != "" {
		if location := w.Header().Get("Location"); len(location) > 0 && location[0] == '/' { // only absolute locations
			w.Header().Set("Location", w.prefix+location)
		}
	}
	w.ResponseWriter.WriteHeader(statusCode)
}

// prefix should be without trailing slash
func handleStrip(prefix string, handler http.Handler) {
	http.Handle(
		prefix+"/", // http mux needs trailing slash
		http.StripPrefix(
			prefix,
			http.HandlerFunc(
				func(w http.ResponseWriter, r *http.Request) {
					w = &prefixedResponseWriter{w, prefix}
					handler.ServeHTTP(w, r)
				},
			),
		),
	)
}

// config reads a key from the optional ini file first, then from the
// environment. godotenv has already merged .env into the environment.
type config map[string]string

func (c config) Get(key string) string {
	if val, ok := c[key]; ok {
		return val
	}
	return os.Getenv(key)
}

func init() {
	log.SetFlags(0) // no log prefixes, on most systems systemd-journald adds them
}

func main() {

	godotenv.Load() // missing .env is fine, the environment may carry everything

	var sessionsArg string // is in both FlagSets
	var configArg string

	// default FlagSet

	// Your reverse proxy must not strip the prefix. So if you're using nginx, the "proxy_pass" value should not end with a slash.
	var base = flag.String("base", "", "strip off this `prefix` from every HTTP request and prepend it to every link")
	flag.StringVar(&configArg, "config", "", "read additional configuration from this ini `file`")
	var listenAddr = flag.String("listen", "127.0.0.1:8080", "serve HTTP content at this `ip:port`")
	flag.StringVar(&sessionsArg, "sessions", "sqlite3:newsdesk-sessions.sqlite3?_busy_timeout=10000&_journal=WAL&_sync=NORMAL&cache=shared", "session database `url`, see github.com/xo/dburl, or \"memory\"")

	// init FlagSet

	var initFlags = flag.NewFlagSet("init", flag.ExitOnError)

	initFlags.StringVar(&configArg, "config", "", "read additional configuration from this ini `file`") // copied from above
	var initCreateAdmin = initFlags.Bool("create-admin", false, "creates an admin account")
	var initEmail = initFlags.String("email", "", "specifies the account's email `address`")

	if len(os.Args) > 1 && os.Args[1] == "init" {
		initFlags.Parse(os.Args[2:])
	} else {
		flag.Parse()
	}

	// configuration

	var conf = config{}
	if configArg != "" {
		var err error
		if conf, err = util.Ini(configArg); err != nil {
			log.Printf("could not read config file: %v", err)
			return
		}
	}

	var backendURL = strings.TrimSuffix(conf.Get("SUPABASE_URL"), "/")
	var anonKey = conf.Get("SUPABASE_ANON_KEY")
	var serviceKey = conf.Get("SUPABASE_SERVICE_ROLE_KEY")

	if backendURL == "" || anonKey == "" {
		log.Println("SUPABASE_URL and SUPABASE_ANON_KEY must be set")
		return
	}

	var bootstrapAdmin, _ = strconv.ParseBool(conf.Get("BOOTSTRAP_ADMIN"))

	var client = platform.NewClient(backendURL, anonKey)

	var admin *platform.Client
	if serviceKey != "" {
		admin = platform.NewClient(backendURL, serviceKey)
	} else {
		log.Println("SUPABASE_SERVICE_ROLE_KEY is not set, user management is disabled")
	}

	app := core.NewApp(client, admin, bootstrapAdmin)

	// init

	if initFlags.Parsed() {
		if *initCreateAdmin {
			createAdmin(app, *initEmail)
		}
		return
	}

	// base

	*base = strings.Trim(*base, "/")
	if *base != "" {
		*base = "/" + *base
	}

	// sessions

	var sessionStore scs.Store
	if sessionsArg == "memory" {
		sessionStore = memstore.New()
	} else {
		sessionsURL, err := dburl.Parse(sessionsArg)
		if err != nil {
			log.Printf("could not parse session database url: %v", err)
			return
		}

		sessionsDB, err := sql.Open(sessionsURL.Driver, sessionsURL.DSN)
		if err != nil {
			log.Printf("could not open session database: %v", err)
			return
		}
		defer func() {
			log.Println("closing session database")
			sessionsDB.Close()
		}()

		if err = sessionsDB.Ping(); err != nil {
			log.Printf("could not ping session database: %v", err)
			return
		}

		switch sessionsURL.Driver {
		case "mysql":
			sessionStore = mysql.NewSessionStore(sessionsDB)
		case "sqlite3":
			sessionStore = sqlite3.NewSessionStore(sessionsDB)
		default:
			log.Printf("unknown session database backend: %s", sessionsURL.Driver)
			return
		}

		log.Printf("storing sessions in %s", sessionsURL.String())
	}

	app.Init(sessionStore, *base)

	listen(app, *listenAddr, *base)
}

// createAdmin provisions an admin account through the service-role client.
// An empty password prompt generates a random one and prints it.
func createAdmin(app *core.App, email string) {

	if app.Admin == nil {
		log.Println("SUPABASE_SERVICE_ROLE_KEY must be set to create accounts")
		return
	}
	if email == "" {
		log.Println("an email address is required, use -email")
		return
	}

	fmt.Printf("password for %s (empty generates one): ", email)
	pass1, err := terminal.ReadPassword(0)
	fmt.Println()
	if err != nil {
		log.Printf("error reading password: %v", err)
		return
	}

	var password string
	if len(pass1) == 0 {
		if password, err = util.RandomString32(); err != nil {
			log.Printf("error generating password: %v", err)
			return
		}
		fmt.Printf("generated password: %s\n", password)
	} else {
		fmt.Printf("repeat password: ")
		pass2, err := terminal.ReadPassword(0)
		fmt.Println()
		if err != nil {
			log.Printf("error reading password: %v", err)
			return
		}
		if !bytes.Equal(pass1, pass2) {
			log.Println("passwords don't match")
			return
		}
		password = string(pass1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if _, err := app.Users.Create(ctx, email, password, "Admin", "", auth.Admin); err != nil {
		log.Printf("error creating admin account: %v", err)
		return
	}

	log.Printf("created admin account %s", email)
}

func listen(app *core.App, addr string, base string) {

	// mux
	//
	// golang mux recovers from panics, so the program won't crash

	var inner = http.NewServeMux()
	inner.Handle("/api/", api.NewRouter(app))
	inner.Handle("/", backend.NewBackendRouter(app))

	handleStrip(base, inner)

	// listener and listen

	sigintChannel := make(chan os.Signal, 1)

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		log.Println(err)
		return
	}

	log.Printf("listening to %s", addr)

	httpSrv := &http.Server{
		Handler:      app.SessionManager.LoadAndSave(http.DefaultServeMux),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		if err := httpSrv.Serve(listener); err != nil {

			// don't panic, we want a graceful shutdown
			if err != http.ErrServerClosed {
				log.Printf("error listening: %v", err)
			}

			// ensure graceful shutdown
			sigintChannel <- os.Interrupt
		}
	}()

	// graceful shutdown

	signal.Notify(sigintChannel, os.Interrupt, syscall.SIGTERM) // SIGINT (Interrupt) or SIGTERM
	<-sigintChannel

	log.Println("shutting down")
	httpSrv.Close()
}
