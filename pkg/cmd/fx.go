package cmd

import "go.uber.org/fx"

var Module = fx.Module("cli",
	fx.Provide(
		fx.Annotate(decodeCmd, fx.ResultTags(`group:"commands"`)),
		fx.Annotate(describeCmd, fx.ResultTags(`group:"commands"`)),
		fx.Annotate(encodeCmd, fx.ResultTags(`group:"commands"`)),
		fx.Annotate(parseCmd, fx.ResultTags(`group:"commands"`)),
	),
	fx.Invoke(Run),
)
