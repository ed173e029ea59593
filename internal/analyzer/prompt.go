package analyzer

// insightsPrompt is the fixed instruction template submitted with every
// audio conversation. The model must answer with exactly one JSON object.
const insightsPrompt = `Audio is the conversation between Agent and Customer.

<INSTRUCTIONS>
  1. Generate raw transcript with details of speaker (Agent or Customer), text, timestamp.
  2. Generate detailed summary of the conversation.
  3. Generate sentiment_score between 1 to 10 where 1 being extremely unsatisfied and 10 being highly satisfied.
  4. Generate sentiment description.
  5. Generate action items with details of owner of action item (Agent or Customer), Action Item Status, Action Item Description.
  6. Make sure output is a valid json format, and must be in the same language as that of transcript.
</INSTRUCTIONS>
<EXAMPLES>
<Output>
{
  "raw_transcript": [
    {
      "speaker": "Agent",
      "text": "Hello",
      "timestamp": "0:08"
    },
    {
      "speaker": "Customer",
      "text": "Hello",
      "timestamp": "0:08"
    }
  ],
  "detailed_summary": "The agent confirmed an inspection appointment with the customer for December 22nd at 12pm. The agent reminded the customer to bring their car grant, stating it is mandatory for the inspection.",
  "sentiment_score": 6,
  "sentiment_description": "Slightly satisfied - The customer seems slightly confused at the beginning, but overall the tone is positive.",
  "action_items": [
    {
      "owner": "Customer",
      "status": "Not Done",
      "action_item": "Bring the car grant to the inspection appointment."
    }
  ]
}
</Output>
</EXAMPLES>
`
