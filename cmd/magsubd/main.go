package main

import (
	"context"
	"flag"
	"log"
	"net/url"
	"os"
	"path"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	mcs "github.com/nfdi-tools/magsub/pkg/configs/server"
	"github.com/nfdi-tools/magsub/pkg/echoutil"
	"github.com/nfdi-tools/magsub/pkg/schema"
	"github.com/nfdi-tools/magsub/pkg/utils/filewatch"
	mstrings "github.com/nfdi-tools/magsub/pkg/utils/strings"

	"github.com/nfdi-tools/magsub/cmd/magsubd/handlers"
)

func main() {

	configPath := flag.String("config-path", "", "server config path")
	loglevel := flag.String("loglevel", "", "log level. debug|info|warn|error|off. Overrides the config file.")
	pcert := flag.String("cert", "", "certification file for TLS")
	pkey := flag.String("certkey", "", "key of certification file for TLS")
	flag.Parse()

	// read configfile
	conf, err := mcs.LoadServerConfig(*configPath)
	if err != nil {
		log.Fatalf("can not read configration: %s", err)
	}
	level := conf.LogLevel
	if *loglevel != "" {
		level = *loglevel
	}

	e := echo.New()
	e.Pre(middleware.AddTrailingSlash())

	// set log
	echoutil.SetLevel(e, level)
	e.HTTPErrorHandler = func(err error, ctx echo.Context) {
		e.DefaultHTTPErrorHandler(err, ctx)
		e.Logger.Error(err)
	}
	e.Use(echoutil.LogHandlerFunc)

	// load the field schema, and quit for restart when its source changes
	schemaSource := conf.Checklist
	if schemaSource == "" {
		schemaSource = conf.FieldSpec
	}
	fields, err := loadFields(conf)
	if err != nil {
		log.Fatalf("can not load field schema (%s): %s", schemaSource, err)
	}
	{
		ctx, cancel, err := filewatch.UntilModifyContext(context.Background(), schemaSource)
		if err != nil {
			log.Fatalf("can not watch field schema (%s): %s", schemaSource, err)
		}
		defer cancel()
		context.AfterFunc(ctx, func() {
			log.Println("field schema file is updated. quit to restart server.")
			graceful, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			if err := e.Shutdown(graceful); err != nil {
				log.Printf("error on shutdown by field schema update: %s", err)
			}
		})
	}

	api, err := root("/api")
	if err != nil {
		log.Fatalf("api root /api is invalid url or path: %s", err)
	}

	// handlers
	{
		e.POST(api("fields/validate"), handlers.FieldCheckHandler())
		e.GET(api("checklist"), handlers.ChecklistHandler(fields))
		e.POST(api("table/validate"), handlers.TableCheckHandler(fields))
	}
	log.Println("registred routes:")
	for _, r := range e.Routes() {
		log.Println(r.Method, r.Path)
	}

	cert, key := *pcert, *pkey
	if cert != "" && key != "" {
		e.Logger.Fatal(e.StartTLS(":"+conf.ServerPort, cert, key))
	} else {
		e.Logger.Fatal(e.Start(":" + conf.ServerPort))
	}
}

func loadFields(conf *mcs.ServerConfig) (*schema.Fields, error) {
	if conf.Checklist != "" {
		f, err := os.Open(conf.Checklist)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return schema.LoadChecklist(f)
	}
	f, err := os.Open(conf.FieldSpec)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return schema.LoadFieldSpec(f)
}

func root(r string) (func(...string) string, error) {
	base := ""
	{
		b, err := url.Parse(r)
		if err != nil {
			return nil, err
		}
		base = b.Path
	}

	return func(s ...string) string {
		parts := make([]string, len(s)+1)
		parts[0] = base
		copy(parts[1:], s)
		p := path.Join(parts...)
		p = mstrings.TrimPrefixAll(p, "/")

		return mstrings.SuppySuffix("/"+p, "/")
	}, nil
}
