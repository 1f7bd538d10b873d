package shell

import (
	"github.com/chzyer/readline"

	"github.com/domino14/expecto/config"
)

func directionItems() []readline.PrefixCompleterInterface {
	return []readline.PrefixCompleterInterface{
		readline.PcItem("up"),
		readline.PcItem("right"),
		readline.PcItem("down"),
		readline.PcItem("left"),
	}
}

var completer = readline.NewPrefixCompleter(
	readline.PcItem("new", readline.PcItem("-seed")),
	readline.PcItem("load"),
	readline.PcItem("show"),
	readline.PcItem("eval"),
	readline.PcItem("best"),
	readline.PcItem("move", directionItems()...),
	readline.PcItem("spawn"),
	readline.PcItem("undo"),
	readline.PcItem("play"),
	readline.PcItem("autoplay",
		readline.PcItem("stop"),
		readline.PcItem("summary"),
		readline.PcItem("-games"),
		readline.PcItem("-threads"),
		readline.PcItem("-logfile"),
		readline.PcItem("-seedfile"),
	),
	readline.PcItem("set",
		readline.PcItem(config.ConfigSearchMinTime),
		readline.PcItem(config.ConfigSearchMaxTime),
		readline.PcItem(config.ConfigSearchMaxDepth),
		readline.PcItem(config.ConfigCachePolicy,
			readline.PcItem("per-search"),
			readline.PcItem("persistent"),
			readline.PcItem("bounded"),
			readline.PcItem("off"),
		),
		readline.PcItem(config.ConfigCacheCapacity),
		readline.PcItem(config.ConfigCacheMemoryFraction),
		readline.PcItem(config.ConfigPlayPastWin, readline.PcItem("true"), readline.PcItem("false")),
		readline.PcItem(config.ConfigAutoplayGames),
		readline.PcItem(config.ConfigAutoplayThreads),
	),
	readline.PcItem("cache",
		readline.PcItem("per-search"),
		readline.PcItem("persistent"),
		readline.PcItem("bounded"),
		readline.PcItem("off"),
	),
	readline.PcItem("help",
		readline.PcItem("load"),
		readline.PcItem("move"),
		readline.PcItem("best"),
		readline.PcItem("play"),
		readline.PcItem("autoplay"),
		readline.PcItem("set"),
		readline.PcItem("cache"),
		readline.PcItem("script"),
	),
	readline.PcItem("script"),
	readline.PcItem("exit"),
)
