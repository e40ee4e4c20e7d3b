package main

import (
	"fmt"
	"os"
	"time"

	"image-steganography/handlers"
	"image-steganography/imaging"
	"image-steganography/models"
	"image-steganography/stego"

	"github.com/akamensky/argparse"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type EncodeArgs struct {
	input       *string
	cover       *string
	output      *string
	password    *string
	seed        *string
	askPassword *bool
}

type DecodeArgs struct {
	input       *string
	output      *string
	password    *string
	seed        *string
	seedImage   *string
	askPassword *bool
}

type CapacityArgs struct {
	input *string
}

func main() {
	parser := argparse.NewParser("steg", "Hide files in the least significant bits of RGB images")
	verbose := parser.Flag("v", "verbose", &argparse.Options{Help: "Enable debug logging"})

	encodeCommand, encodeArgs := initEncodeCommand(parser)
	decodeCommand, decodeArgs := initDecodeCommand(parser)
	capacityCommand, capacityArgs := initCapacityCommand(parser)
	serveCommand := parser.NewCommand("serve", "Start the HTTP API")

	if err := parser.Parse(os.Args); err != nil {
		fmt.Fprint(os.Stderr, parser.Usage(err))
		os.Exit(2)
	}

	setupLogging(*verbose, serveCommand.Happened())

	var err error
	switch {
	case encodeCommand.Happened():
		err = encode(encodeArgs)
	case decodeCommand.Happened():
		err = decode(decodeArgs)
	case capacityCommand.Happened():
		err = capacity(capacityArgs)
	case serveCommand.Happened():
		err = serve(*verbose)
	}

	if err != nil {
		log.Fatal().Err(err).Msg("Command failed")
	}
}

func initEncodeCommand(parser *argparse.Parser) (*argparse.Command, *EncodeArgs) {
	cmd := parser.NewCommand("encode", "Hide a file inside a cover image")
	return cmd, &EncodeArgs{
		input:       cmd.String("i", "input", &argparse.Options{Required: true, Help: "File to hide"}),
		cover:       cmd.String("c", "cover", &argparse.Options{Required: true, Help: "Cover image (png, bmp, tiff, gif, jpeg, webp)"}),
		output:      cmd.String("o", "output", &argparse.Options{Required: true, Help: "Stego image to write (.png, .bmp or .tiff)"}),
		password:    cmd.String("p", "password", &argparse.Options{Help: "Encrypt with AES-256-CBC under this password"}),
		seed:        cmd.String("s", "seed", &argparse.Options{Help: "Scramble bit positions: a number, 'password', 'image' or any token"}),
		askPassword: cmd.Flag("a", "ask-password", &argparse.Options{Help: "Prompt for the password"}),
	}
}

func initDecodeCommand(parser *argparse.Parser) (*argparse.Command, *DecodeArgs) {
	cmd := parser.NewCommand("decode", "Recover a file hidden in a stego image")
	return cmd, &DecodeArgs{
		input:       cmd.String("i", "input", &argparse.Options{Required: true, Help: "Stego image"}),
		output:      cmd.String("o", "output", &argparse.Options{Required: true, Help: "Output file, or directory to use the stored filename"}),
		password:    cmd.String("p", "password", &argparse.Options{Help: "Password used when encoding"}),
		seed:        cmd.String("s", "seed", &argparse.Options{Help: "Seed used when encoding"}),
		seedImage:   cmd.String("S", "seed-image", &argparse.Options{Help: "Original cover image to hash for an 'image' seed"}),
		askPassword: cmd.Flag("a", "ask-password", &argparse.Options{Help: "Prompt for the password"}),
	}
}

func initCapacityCommand(parser *argparse.Parser) (*argparse.Command, *CapacityArgs) {
	cmd := parser.NewCommand("capacity", "Show how much a cover image can hold")
	return cmd, &CapacityArgs{
		input: cmd.String("i", "input", &argparse.Options{Required: true, Help: "Cover image"}),
	}
}

func setupLogging(verbose, server bool) {
	if server {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	} else {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	if name := os.Getenv(models.LogLevelEnvVar); name != "" {
		level, err := zerolog.ParseLevel(name)
		if err != nil {
			log.Warn().Str("value", name).Msgf("Ignoring invalid %s", models.LogLevelEnvVar)
			return
		}
		zerolog.SetGlobalLevel(level)
	}
}

func encode(args *EncodeArgs) error {
	password, err := resolvePassword(*args.password, *args.askPassword, true)
	if err != nil {
		return err
	}

	report, err := stego.EncodeFile(*args.input, *args.cover, *args.output, stego.EncodeOptions{
		Password: password,
		Seed:     *args.seed,
	})
	if err != nil {
		return err
	}

	fmt.Printf("%s (PSNR %.2f dB, %d of %d bits used)\n",
		report.Output, report.PSNR, report.BitsWritten, report.Capacity)
	return nil
}

func decode(args *DecodeArgs) error {
	password, err := resolvePassword(*args.password, *args.askPassword, false)
	if err != nil {
		return err
	}

	path, err := stego.DecodeFile(*args.input, *args.output, stego.DecodeOptions{
		Password:      password,
		Seed:          *args.seed,
		SeedImagePath: *args.seedImage,
	})
	if err != nil {
		return err
	}

	fmt.Println(path)
	return nil
}

func capacity(args *CapacityArgs) error {
	img, metadata, _, err := imaging.NewImageCodec().Load(*args.input)
	if err != nil {
		return err
	}

	payloadBytes := max(stego.Capacity(img)/stego.BitsInByte-stego.HeaderLength, 0)

	fmt.Printf("Image:            %dx%d (%s)\n", metadata.Width, metadata.Height, metadata.Format)
	fmt.Printf("Capacity:         %d bits\n", metadata.Capacity)
	fmt.Printf("Max secret:       %d bytes\n", stego.MaxPlaintextLength(payloadBytes, false))
	fmt.Printf("Max secret (enc): %d bytes\n", stego.MaxPlaintextLength(payloadBytes, true))
	return nil
}

func serve(verbose bool) error {
	if !verbose {
		gin.SetMode(gin.ReleaseMode)
	}

	cfg, err := models.LoadServerConfig()
	if err != nil {
		return err
	}

	router := handlers.NewRouter(cfg)

	log.Info().
		Str("port", cfg.Port).
		Strs("origins", cfg.AllowedOrigins).
		Int64("max_upload_bytes", cfg.MaxUploadBytes).
		Msg("Server starting")
	log.Info().Msg("POST /api/v1/stego/insert   - hide secret_file in cover_image (returns stego image)")
	log.Info().Msg("POST /api/v1/stego/extract  - recover the file hidden in stego_image")
	log.Info().Msg("POST /api/v1/stego/capacity - report how much cover_image can hold")
	log.Info().Msg("GET  /api/v1/health         - health check")

	return router.Run(":" + cfg.Port)
}
