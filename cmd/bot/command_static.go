package main

import (
	tele "gopkg.in/telebot.v3"
)

const (
	textStart = `🏦 Welcome to the Bankroll economy!

Every coin here comes from the Bank and goes back to it.
Chat to earn passive income, play the casino, make it rain and shop.

Type /help to see what you can do.`

	textHelp = `<b>Commands</b>
/balance - your coins
/profile - level, badges and items
/history - your last transactions
/pay &lt;amount&gt; - reply to someone to pay them
/coinflip &lt;bet&gt; - double or nothing
/slots &lt;bet&gt; - three of a kind pays x10
/rain &lt;120|480|980|4800&gt; [0|5|10|15] - share coins with the chat
/shop - browse the catalog
/buy &lt;item&gt; - buy an item
/bank - Bank reserves and economy status
/top - richest accounts
/afk - stop earning passive income until you talk again`

	textList = `<b>Admin commands</b>
/grant &lt;id&gt; &lt;amount&gt; - pay an account from the Bank
/givexp &lt;id&gt; &lt;amount&gt; - add XP
/airdrop &lt;amount&gt; - split coins across everyone online
/audit - check total supply`
)

func commandStart(c tele.Context) error {
	return c.Send(textStart, &tele.SendOptions{ParseMode: tele.ModeHTML})
}

func commandHelp(c tele.Context) error {
	return c.Send(textHelp, &tele.SendOptions{ParseMode: tele.ModeHTML})
}

func commandList(c tele.Context) error {
	if !AuthRequire(c, chatId) {
		return nil
	}

	return c.Send(textList, &tele.SendOptions{ParseMode: tele.ModeHTML})
}
